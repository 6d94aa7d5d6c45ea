package weavetest

import (
	"sync"

	"github.com/iov-one/timelock"
)

// Clock is a manually controlled timelock.Clock. It never moves on its own.
type Clock struct {
	mu  sync.Mutex
	now timelock.Timestamp
}

var _ timelock.Clock = (*Clock)(nil)

// NewClock returns a clock showing given time.
func NewClock(now timelock.Timestamp) *Clock {
	return &Clock{now: now}
}

// Now implements timelock.Clock
func (c *Clock) Now() timelock.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to given time. Moving backwards panics, a ledger clock
// is never allowed to do that.
func (c *Clock) Set(now timelock.Timestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now < c.now {
		panic("clock cannot move backwards")
	}
	c.now = now
}

// Advance moves the clock forward by given number of units.
func (c *Clock) Advance(units uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(units)
}
