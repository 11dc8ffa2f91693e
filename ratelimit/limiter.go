// Package ratelimit provides an in-memory, per-key fixed-window limiter.
// Exhaustion is a normal outcome, not an error: Allow never fails, it only
// answers yes or no.
package ratelimit

import (
	"sync"
	"time"
)

// pruneThreshold is the bucket count above which expired windows are swept.
const pruneThreshold = 4096

type bucket struct {
	windowStart time.Time
	count       int
}

// Limiter counts operations per key within a fixed window. Each guarded
// surface owns its own instance; instances share no state.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

// New creates a limiter allowing max operations per key per window.
func New(max int, window time.Duration) *Limiter {
	return NewWithClock(max, window, time.Now)
}

// NewWithClock creates a limiter with an injected clock.
func NewWithClock(max int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     now,
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether the key may perform another operation, counting it
// if so. A race between two requests holding the last slot admits only one.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		if len(l.buckets) >= pruneThreshold {
			l.prune(now)
		}
		l.buckets[key] = &bucket{windowStart: now, count: 1}
		return true
	}

	if b.count >= l.max {
		return false
	}

	b.count++
	return true
}

// prune drops buckets whose window has elapsed. Caller must hold the lock.
func (l *Limiter) prune(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, key)
		}
	}
}
