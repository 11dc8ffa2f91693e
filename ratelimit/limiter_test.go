package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock lets tests move time by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(5, time.Minute, clock.Now)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("203.0.113.7") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if limiter.Allow("203.0.113.7") {
		t.Error("6th request within the window should be denied")
	}
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(3, time.Hour, clock.Now)

	for i := 0; i < 3; i++ {
		limiter.Allow("203.0.113.7")
	}
	if limiter.Allow("203.0.113.7") {
		t.Fatal("expected denial once the window is exhausted")
	}

	// Just short of the window should still deny
	clock.Advance(time.Hour - time.Second)
	if limiter.Allow("203.0.113.7") {
		t.Error("expected denial before the window elapses")
	}

	clock.Advance(2 * time.Second)
	if !limiter.Allow("203.0.113.7") {
		t.Error("expected a fresh window after the old one elapsed")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewWithClock(1, time.Minute, clock.Now)

	if !limiter.Allow("203.0.113.7") {
		t.Fatal("first key should be allowed")
	}
	if limiter.Allow("203.0.113.7") {
		t.Error("first key should now be exhausted")
	}
	if !limiter.Allow("198.51.100.23") {
		t.Error("a different key must not share the first key's counter")
	}
}

func TestLimiterInstancesAreIsolated(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	login := NewWithClock(1, time.Minute, clock.Now)
	admin := NewWithClock(1, time.Hour, clock.Now)

	login.Allow("203.0.113.7")
	if login.Allow("203.0.113.7") {
		t.Fatal("login limiter should be exhausted")
	}
	if !admin.Allow("203.0.113.7") {
		t.Error("admin limiter must not observe login limiter state")
	}
}

func TestLimiterConcurrentRequestsCannotOverrun(t *testing.T) {
	limiter := New(5, time.Minute)

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("203.0.113.7") {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 5 {
		t.Errorf("expected exactly 5 allowed under contention, got %d", allowed)
	}
}
