package capture

import (
	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/core"
)

// NewSource builds the configured frame source.
func NewSource(cfg config.CaptureConfig) (Source, error) {
	switch cfg.Source {
	case "file":
		return NewFileSource(cfg)
	case "pcap":
		return NewPcapSource(cfg)
	case "afpacket":
		return newAfpacketSource(cfg)
	default:
		return nil, core.ErrNoCaptureSource
	}
}
