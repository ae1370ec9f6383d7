package testutil

import (
	"sync"
	"time"
)

// DefaultNow is the reference time tests use unless they need another.
var DefaultNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

// Clock is a settable clock for tests. It implements engine.Clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock reading now. A zero now means DefaultNow.
func NewClock(now time.Time) *Clock {
	if now.IsZero() {
		now = DefaultNow
	}
	return &Clock{now: now}
}

// Now returns the current reading without advancing it.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock by d, which may be negative.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
