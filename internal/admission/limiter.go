package admission

import (
	"sync"
	"sync/atomic"
	"time"

	"firestige.xyz/strix/internal/core"
)

// DiagLimiter bounds diagnostic output from the admission path. Rejection
// diagnostics are best-effort operator visibility, never load-bearing, so a
// flood of malformed frames must not turn into a flood of log lines. It
// uses a sliding window per drop reason: counts are stored per window and
// rotated when the window expires.
type DiagLimiter struct {
	mu           sync.Mutex
	current      map[core.DropReason]*atomic.Int64
	windowStart  time.Time
	windowSize   time.Duration
	maxPerWindow int64

	suppressed atomic.Int64
}

// DiagLimiterConfig configures diagnostic rate limiting.
type DiagLimiterConfig struct {
	MaxPerReason int           `mapstructure:"max_per_reason"` // max log lines per reason per window (0 = disabled)
	Window       time.Duration `mapstructure:"window"`         // window size (default 10s)
}

// NewDiagLimiter creates a limiter. Returns nil if disabled (MaxPerReason <= 0);
// a nil limiter allows everything.
func NewDiagLimiter(cfg DiagLimiterConfig) *DiagLimiter {
	if cfg.MaxPerReason <= 0 {
		return nil
	}
	if cfg.Window <= 0 {
		cfg.Window = 10 * time.Second
	}
	return &DiagLimiter{
		current:      make(map[core.DropReason]*atomic.Int64),
		windowStart:  time.Now(),
		windowSize:   cfg.Window,
		maxPerWindow: int64(cfg.MaxPerReason),
	}
}

// Allow reports whether one more diagnostic for the given reason may be
// emitted. A nil limiter always allows.
func (l *DiagLimiter) Allow(reason core.DropReason, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	if now.Sub(l.windowStart) >= l.windowSize {
		l.current = make(map[core.DropReason]*atomic.Int64)
		l.windowStart = now
	}
	counter, exists := l.current[reason]
	if !exists {
		counter = &atomic.Int64{}
		l.current[reason] = counter
	}
	l.mu.Unlock()

	if counter.Add(1) > l.maxPerWindow {
		l.suppressed.Add(1)
		return false
	}
	return true
}

// Suppressed returns the total number of suppressed diagnostics.
func (l *DiagLimiter) Suppressed() int64 {
	if l == nil {
		return 0
	}
	return l.suppressed.Load()
}
