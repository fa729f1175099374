// Package ratelimit implements a fixed-window request limiter keyed by scope.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count int
	reset time.Time
}

// Limiter allows up to max requests per scope key within each fixed window.
// Windows are in-process only and reset on restart.
type Limiter struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	windows map[string]*window

	now func() time.Time
}

// New creates a Limiter allowing max requests per period for each key.
func New(max int, period time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records a request against key and reports whether it fits in the
// current window. The first request after a window expires starts a new one.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		l.windows[key] = &window{count: 1, reset: now.Add(l.period)}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Status returns the remaining allowance for key and when its window resets.
// A key with no open window has the full allowance.
func (l *Limiter) Status(key string) (remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		return l.max, now.Add(l.period)
	}
	remaining = l.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, w.reset
}
