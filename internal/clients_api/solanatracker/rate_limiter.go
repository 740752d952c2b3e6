package solanatracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultMinInterval is the spacing Solana Tracker tolerates between calls on one key.
const DefaultMinInterval = time.Second

// RateLimiter enforces a minimum spacing between consecutive upstream requests.
// One instance is shared by every caller that talks to the same host.
type RateLimiter struct {
	minInterval time.Duration
	slot        chan struct{} // one holder at a time: the read-wait-write of last is atomic

	mu   sync.Mutex
	last time.Time
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	if minInterval < 0 {
		minInterval = 0
	}
	return &RateLimiter{
		minInterval: minInterval,
		slot:        make(chan struct{}, 1),
	}
}

// Acquire blocks until minInterval has passed since the previous request instant,
// then records now as the new instant.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	select {
	case r.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.slot }()

	if last := r.LastRequest(); !last.IsZero() {
		if wait := r.minInterval - time.Since(last); wait > 0 {
			LogDebug("Rate limiting upstream request", zap.Duration("wait", wait))
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}

	r.mu.Lock()
	r.last = time.Now()
	r.mu.Unlock()
	return nil
}

// LastRequest returns the instant recorded by the most recent Acquire.
func (r *RateLimiter) LastRequest() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *RateLimiter) MinInterval() time.Duration {
	return r.minInterval
}
