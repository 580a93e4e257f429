package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/pool"
)

// Load reads, defaults and validates a configuration file.
func Load(path string) (*StrixConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg StrixConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Logger == nil {
		cfg.Logger = log.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("capture.source", "file")
	v.SetDefault("capture.snap_len", pool.DefaultBufferSize)
	v.SetDefault("capture.buffer_size", pool.DefaultBufferSize)
	v.SetDefault("capture.timeout_ms", 100)

	v.SetDefault("limiter.max_per_reason", 5)
	v.SetDefault("limiter.window", 10*time.Second)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9110")
	v.SetDefault("metrics.path", "/metrics")

	// The safe defaults: run every check in software, reject zero-checksum
	// UDP and any packet carrying IP options.
	v.SetDefault("filter.driver_filters_packets", false)
	v.SetDefault("filter.driver_validates_checksum", false)
	v.SetDefault("filter.accept_zero_checksum_udp", false)
	v.SetDefault("filter.accept_ip_options", false)
}
