package realtime

import (
	"sync"
	"time"
)

// RateLimiter is a keyed sliding-window limiter.
//
// Keys are abuse-tracking identities: the DID when known, otherwise the
// remote network address. Keys are independent; there is no cross-key
// interaction. A denied attempt is NOT recorded, so a sustained attacker
// is still capped at "limit" accepted events per rolling window.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu     sync.Mutex
	events map[string][]time.Time
}

// NewRateLimiter constructs a RateLimiter with safe defaults when inputs are invalid.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = rateLimitEvents
	}
	if window <= 0 {
		window = rateLimitWindow
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
	}
}

// Allow reports whether an event for key at time "now" should be permitted.
// Timestamps older than the window are discarded before counting.
func (r *RateLimiter) Allow(key string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cut := now.Add(-r.window)
	events := r.events[key]
	dst := events[:0]
	for _, t := range events {
		if t.After(cut) {
			dst = append(dst, t)
		}
	}

	if len(dst) >= r.limit {
		r.events[key] = dst
		return false
	}

	r.events[key] = append(dst, now)
	return true
}

// Prune removes keys whose window is empty and returns how many were removed.
// This is memory reclamation only; Allow already filters lazily.
func (r *RateLimiter) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cut := now.Add(-r.window)
	n := 0
	for key, events := range r.events {
		live := false
		for _, t := range events {
			if t.After(cut) {
				live = true
				break
			}
		}
		if !live {
			delete(r.events, key)
			n++
		}
	}
	return n
}
