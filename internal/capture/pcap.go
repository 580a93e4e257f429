package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket/pcap"

	"firestige.xyz/strix/internal/config"
)

// PcapSource reads frames from a live interface or a pcap file through
// libpcap.
type PcapSource struct {
	handle *pcap.Handle
	live   bool
}

// NewPcapSource opens a live capture on cfg.Device.
func NewPcapSource(cfg config.CaptureConfig) (*PcapSource, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	handle, err := pcap.OpenLive(cfg.Device, int32(cfg.SnapLen), true, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %s: %w", cfg.Device, err)
	}
	if cfg.BPFFilter != "" {
		if err := handle.SetBPFFilter(cfg.BPFFilter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("failed to set BPF filter: %w", err)
		}
	}
	return &PcapSource{handle: handle, live: true}, nil
}

// NewFileSource opens a pcap file for replay.
func NewFileSource(cfg config.CaptureConfig) (*PcapSource, error) {
	handle, err := pcap.OpenOffline(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file %s: %w", cfg.File, err)
	}
	if cfg.BPFFilter != "" {
		if err := handle.SetBPFFilter(cfg.BPFFilter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("failed to set BPF filter: %w", err)
		}
	}
	return &PcapSource{handle: handle}, nil
}

// Run implements Source. Replay ends when the file is exhausted.
func (s *PcapSource) Run(ctx context.Context, handle func(data []byte, ts time.Time)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, ci, err := s.handle.ReadPacketData()
		switch {
		case err == nil:
			handle(data, ci.Timestamp)
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, pcap.NextErrorTimeoutExpired):
			continue
		default:
			if s.live {
				// Transient read errors on a live handle are not fatal.
				continue
			}
			return fmt.Errorf("pcap read failed: %w", err)
		}
	}
}

// Close implements Source.
func (s *PcapSource) Close() {
	s.handle.Close()
}
