// Package ratelimit provides a sliding-window limiter for outbound API calls.
package ratelimit

import (
	"sync"
	"time"
)

// Stack Exchange allows roughly 30 requests per minute per IP without
// an application key.
const (
	DefaultLimit  = 30
	DefaultWindow = time.Minute
)

// Limiter is a sliding-window call limiter. It tracks the instants of
// recent permitted calls and denies new calls once the window is full.
// Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
	now    func() time.Time
}

// New creates a Limiter permitting at most limit calls per window.
// Non-positive arguments fall back to the defaults.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow reports whether a call is permitted now. A permitted call is
// recorded immediately; a denied call leaves the window untouched.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.calls) >= l.limit {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// Active returns the number of calls currently inside the window.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// prune drops call instants older than the window. Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept
}
