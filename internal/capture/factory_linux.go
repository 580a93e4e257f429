//go:build linux

package capture

import "firestige.xyz/strix/internal/config"

func newAfpacketSource(cfg config.CaptureConfig) (Source, error) {
	return NewAfpacketSource(cfg)
}
