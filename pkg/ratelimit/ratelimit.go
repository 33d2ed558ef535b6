// Package ratelimit throttles requests to the backend with a token bucket.
// A limiter can also be paused, which the client does when the backend
// answers 429 with a Retry-After header.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket with a pause deadline. A nil or disabled
// Limiter never blocks. It is safe for concurrent use.
type Limiter struct {
	bucket *rate.Limiter // nil when disabled

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewLimiter creates a limiter allowing r requests per second with the
// given burst. A rate of 0 or less disables limiting.
func NewLimiter(r float64, burst int) *Limiter {
	if r <= 0 {
		return &Limiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(r), burst)}
}

func (l *Limiter) disabled() bool {
	return l == nil || l.bucket == nil
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.disabled() {
		return nil
	}

	for {
		d := l.PauseRemaining()
		if d <= 0 {
			break
		}
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return l.bucket.Wait(ctx)
}

// Allow takes a token if one is available right now.
func (l *Limiter) Allow() bool {
	if l.disabled() {
		return true
	}
	if l.PauseRemaining() > 0 {
		return false
	}
	return l.bucket.Allow()
}

// Pause blocks all requests for at least d. Overlapping pauses keep the
// later deadline.
func (l *Limiter) Pause(d time.Duration) {
	if l.disabled() || d <= 0 {
		return
	}
	until := time.Now().Add(d)

	l.mu.Lock()
	if until.After(l.pausedUntil) {
		l.pausedUntil = until
	}
	l.mu.Unlock()
}

// PauseRemaining reports how long the limiter stays paused.
func (l *Limiter) PauseRemaining() time.Duration {
	if l.disabled() {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if d := time.Until(l.pausedUntil); d > 0 {
		return d
	}
	return 0
}

func (l *Limiter) String() string {
	if l.disabled() {
		return "rate limiting disabled"
	}
	return fmt.Sprintf("%.2f req/s, burst=%d", float64(l.bucket.Limit()), l.bucket.Burst())
}
