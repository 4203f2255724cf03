package testutil

import (
	"sync"
	"time"
)

// FakeClock is a thread-safe, manually advanced wall clock for tests.
//
// Unlike link.SystemClock, FakeClock only moves when told to, which makes
// time-window behavior (code expiry) exactly reproducible.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at the given instant.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the clock's current instant without advancing it.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative d moves it backward;
// tests that need to pre-date a record rely on that.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to a specific instant.
func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
