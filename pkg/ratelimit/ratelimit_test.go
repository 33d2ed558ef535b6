package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		burst    int
		disabled bool
		want     int
	}{
		{"normal rate", 10, 5, false, 5},
		{"zero rate disables", 0, 5, true, 0},
		{"negative rate disables", -1, 5, true, 0},
		{"zero burst clamped to 1", 10, 0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(tt.rate, tt.burst)
			if l.disabled() != tt.disabled {
				t.Errorf("expected disabled=%v, got %v", tt.disabled, l.disabled())
			}
			if !tt.disabled && l.bucket.Burst() != tt.want {
				t.Errorf("expected burst=%d, got %d", tt.want, l.bucket.Burst())
			}
		})
	}
}

func TestNilAndDisabledNeverBlock(t *testing.T) {
	var nilLimiter *Limiter
	for _, l := range []*Limiter{nilLimiter, NewLimiter(0, 1)} {
		for i := 0; i < 50; i++ {
			if !l.Allow() {
				t.Fatal("expected limiter to always allow")
			}
		}
		if err := l.Wait(context.Background()); err != nil {
			t.Errorf("Wait returned %v", err)
		}
		l.Pause(time.Hour)
		if l.PauseRemaining() != 0 {
			t.Error("disabled limiter should not pause")
		}
	}
}

func TestBurstThenDeny(t *testing.T) {
	l := NewLimiter(0.001, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if l.Allow() {
		t.Error("expected request beyond burst to be denied")
	}
}

func TestWaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected Wait to fail when the next token is past the deadline")
	}
}

func TestPauseBlocksUntilDeadline(t *testing.T) {
	l := NewLimiter(1000, 10)
	l.Pause(50 * time.Millisecond)

	if l.Allow() {
		t.Error("expected paused limiter to deny")
	}
	if l.PauseRemaining() <= 0 {
		t.Error("expected remaining pause")
	}

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Errorf("Wait returned too early after %v", time.Since(start))
	}
}

func TestPauseKeepsLaterDeadline(t *testing.T) {
	l := NewLimiter(10, 1)
	l.Pause(time.Second)
	l.Pause(time.Millisecond)

	if l.PauseRemaining() < 500*time.Millisecond {
		t.Errorf("shorter pause should not shorten the deadline, remaining %v", l.PauseRemaining())
	}
}

func TestString(t *testing.T) {
	if got := NewLimiter(0, 1).String(); got != "rate limiting disabled" {
		t.Errorf("unexpected %q", got)
	}
	if got := NewLimiter(2, 4).String(); got != "2.00 req/s, burst=4" {
		t.Errorf("unexpected %q", got)
	}
}
