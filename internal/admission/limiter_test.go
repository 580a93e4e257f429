package admission

import (
	"testing"
	"time"

	"firestige.xyz/strix/internal/core"
)

func TestDiagLimiterDisabled(t *testing.T) {
	l := NewDiagLimiter(DiagLimiterConfig{MaxPerReason: 0})
	if l != nil {
		t.Fatal("Expected nil limiter when disabled")
	}
	// A nil limiter allows everything.
	for i := 0; i < 100; i++ {
		if !l.Allow(core.DropFragmented, time.Now()) {
			t.Fatal("nil limiter must allow")
		}
	}
	if l.Suppressed() != 0 {
		t.Error("nil limiter must report zero suppressed")
	}
}

func TestDiagLimiterCapsPerReason(t *testing.T) {
	l := NewDiagLimiter(DiagLimiterConfig{MaxPerReason: 3, Window: time.Minute})
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow(core.DropFragmented, now) {
			t.Fatalf("message %d should be allowed", i)
		}
	}
	if l.Allow(core.DropFragmented, now) {
		t.Error("fourth message should be suppressed")
	}
	if l.Suppressed() != 1 {
		t.Errorf("Expected 1 suppressed, got %d", l.Suppressed())
	}

	// A different reason has its own budget.
	if !l.Allow(core.DropBadIPChecksum, now) {
		t.Error("different reason should be allowed")
	}
}

func TestDiagLimiterWindowRotation(t *testing.T) {
	l := NewDiagLimiter(DiagLimiterConfig{MaxPerReason: 1, Window: time.Second})
	now := time.Now()

	if !l.Allow(core.DropFragmented, now) {
		t.Fatal("first message should be allowed")
	}
	if l.Allow(core.DropFragmented, now) {
		t.Fatal("second message in same window should be suppressed")
	}
	if !l.Allow(core.DropFragmented, now.Add(2*time.Second)) {
		t.Error("message after window rotation should be allowed")
	}
}

func TestDiagLimiterDefaultWindow(t *testing.T) {
	l := NewDiagLimiter(DiagLimiterConfig{MaxPerReason: 5})
	if l == nil {
		t.Fatal("Expected limiter")
	}
	if l.windowSize != 10*time.Second {
		t.Errorf("Expected 10s default window, got %v", l.windowSize)
	}
}
