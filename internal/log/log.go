// Package log provides the project logger, a thin facade over logrus.
package log

import (
	"sync"
)

type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
}

// LoggerConfig configures the global logger.
type LoggerConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Time    string `mapstructure:"time" yaml:"time"`
}

// DefaultConfig returns the configuration used when none is supplied:
// info-level console output.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:   "info",
		Pattern: "%time [%level] %msg%n",
		Time:    "2006-01-02 15:04:05",
	}
}

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the global logger, initializing it with defaults if
// Init was never called.
func GetLogger() Logger {
	if logger == nil {
		Init(DefaultConfig())
	}
	return logger
}

// Init initializes the global logger. Subsequent calls are no-ops.
func Init(cfg *LoggerConfig) {
	once.Do(func() {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		logger = newLogrusAdapter(cfg)
	})
}
