package pagelingo

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a rolling-window request ceiling shared by all
// concurrent batches and fallback calls of a session.
type RateLimiter struct {
	mu     sync.Mutex
	stamps []time.Time
	limit  int
	window time.Duration
	poll   time.Duration
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerWindow int           // Maximum requests per window (default: 60)
	Window            time.Duration // Rolling window length (default: 1m)
	PollInterval      time.Duration // How often Wait re-checks admission (default: 1s)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	limit := cfg.RequestsPerWindow
	if limit <= 0 {
		limit = 60
	}

	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}

	return &RateLimiter{
		limit:  limit,
		window: window,
		poll:   poll,
	}
}

// Admit prunes timestamps that have left the window and reports whether
// another request may be dispatched now. It does not reserve a slot;
// call Record once the request is actually being issued.
func (r *RateLimiter) Admit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(time.Now())
	return len(r.stamps) < r.limit
}

// Record logs a dispatched request. Call it after admission and before
// the network call so concurrent waiters see the slot as taken.
func (r *RateLimiter) Record() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.prune(now)
	r.stamps = append(r.stamps, now)
}

// Wait blocks until Admit reports a free slot or the context is done.
// Admission is polled at a fixed interval; there is no FIFO fairness
// among simultaneous waiters.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Admit() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// InWindow returns the number of requests recorded within the current
// window.
func (r *RateLimiter) InWindow() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(time.Now())
	return len(r.stamps)
}

// prune drops timestamps older than the window (must be called with the
// lock held). Stamps are appended in order, so the suffix after the
// first in-window entry is entirely in-window.
func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	keep := 0
	for keep < len(r.stamps) && !r.stamps[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		r.stamps = append(r.stamps[:0], r.stamps[keep:]...)
	}
}
