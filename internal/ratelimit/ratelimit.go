package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter serializes outbound requests. Wait blocks until the next
// request is allowed or the context is cancelled.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// PauseRateLimiter enforces a minimum pause between consecutive requests,
// with optional jitter up to maxPause. Politeness toward the remote site is
// the point: fetches stay strictly sequential and paced.
type PauseRateLimiter struct {
	minPause time.Duration
	maxPause time.Duration
	lastWait time.Time
	mu       sync.Mutex
}

func NewPauseRateLimiter(minPause, maxPause time.Duration) *PauseRateLimiter {
	if maxPause < minPause {
		maxPause = minPause
	}
	return &PauseRateLimiter{
		minPause: minPause,
		maxPause: maxPause,
	}
}

func (r *PauseRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// First caller passes through; the pause applies between requests.
	if !r.lastWait.IsZero() {
		elapsed := time.Since(r.lastWait)
		if pause := r.nextPause(); elapsed < pause {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause - elapsed):
			}
		}
	}

	r.lastWait = time.Now()
	return nil
}

func (r *PauseRateLimiter) nextPause() time.Duration {
	if r.maxPause == r.minPause {
		return r.minPause
	}
	jitter := time.Duration(rand.Int63n(int64(r.maxPause - r.minPause)))
	return r.minPause + jitter
}

// None is a pass-through limiter for providers that pace themselves.
type None struct{}

func (None) Wait(ctx context.Context) error { return ctx.Err() }
