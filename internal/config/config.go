// Package config handles configuration loading using viper.
package config

import (
	"fmt"

	"firestige.xyz/strix/internal/admission"
	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/endpoint"
	"firestige.xyz/strix/internal/log"
)

// StrixConfig is the top-level configuration file structure.
type StrixConfig struct {
	Filter    admission.Config            `mapstructure:"filter"`
	Limiter   admission.DiagLimiterConfig `mapstructure:"limiter"`
	Capture   CaptureConfig               `mapstructure:"capture"`
	Endpoints []endpoint.Definition       `mapstructure:"endpoints"`
	Metrics   MetricsConfig               `mapstructure:"metrics"`
	Logger    *log.LoggerConfig           `mapstructure:"log"`
}

// CaptureConfig selects and parameterizes the link-layer frame source.
type CaptureConfig struct {
	Source     string `mapstructure:"source"`      // pcap | afpacket | file
	Device     string `mapstructure:"device"`      // interface name for live capture
	File       string `mapstructure:"file"`        // pcap file for replay
	SnapLen    int    `mapstructure:"snap_len"`    // bytes captured per frame
	BufferSize int    `mapstructure:"buffer_size"` // pool buffer size, bytes
	TimeoutMs  int    `mapstructure:"timeout_ms"`  // poll timeout for live capture
	BPFFilter  string `mapstructure:"bpf_filter"`  // optional kernel-side filter
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Validate checks cross-field constraints that viper cannot express.
func (c *StrixConfig) Validate() error {
	switch c.Capture.Source {
	case "pcap", "afpacket":
		if c.Capture.Device == "" {
			return fmt.Errorf("%w: capture.device required for live capture", core.ErrConfigInvalid)
		}
	case "file":
		if c.Capture.File == "" {
			return fmt.Errorf("%w: capture.file required for replay", core.ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown capture.source %q", core.ErrConfigInvalid, c.Capture.Source)
	}

	if len(c.Endpoints) == 0 {
		return fmt.Errorf("%w: at least one endpoint must be configured", core.ErrConfigInvalid)
	}
	return nil
}
