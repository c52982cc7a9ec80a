// Package ratelimit bounds how often a client may request a new login code.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults match the deployed policy: 3 OTP requests per client IP per hour.
const (
	DefaultLimit  = 3
	DefaultWindow = time.Hour
)

// SlidingWindowLimiter tracks request timestamps per client key over a
// trailing window. A request is allowed iff, after discarding entries older
// than the window, fewer than limit remain; allowed requests are recorded,
// denied requests leave the ledger untouched.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	ledgers map[string][]time.Time
	limit   int
	window  time.Duration
}

// Option configures a SlidingWindowLimiter.
type Option func(*SlidingWindowLimiter)

// WithLimit overrides the per-window quota when greater than zero.
func WithLimit(limit int) Option {
	return func(l *SlidingWindowLimiter) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithWindow overrides the trailing window when greater than zero.
func WithWindow(window time.Duration) Option {
	return func(l *SlidingWindowLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// New constructs a limiter with the default 3-per-hour policy.
func New(opts ...Option) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		ledgers: make(map[string][]time.Time),
		limit:   DefaultLimit,
		window:  DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether the client identified by key may make a request at
// now, recording the request when it does.
func (l *SlidingWindowLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := prune(l.ledgers[key], now.Add(-l.window))
	if len(recent) >= l.limit {
		l.ledgers[key] = recent
		return false
	}

	l.ledgers[key] = append(recent, now)
	return true
}

// PruneIdle drops ledgers with no activity inside the window so clients that
// stop requesting do not accumulate forever. Returns the number of ledgers
// removed. Wired to the periodic cleanup worker.
func (l *SlidingWindowLimiter) PruneIdle(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	removed := 0
	for key, ledger := range l.ledgers {
		if len(prune(ledger, cutoff)) == 0 {
			delete(l.ledgers, key)
			removed++
		}
	}
	return removed
}

// prune discards timestamps at or before cutoff. Ledgers are append-only, so
// the slice is already ordered and a single scan suffices.
func prune(ledger []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(ledger); i++ {
		if ledger[i].After(cutoff) {
			break
		}
	}
	return ledger[i:]
}
