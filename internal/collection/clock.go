package collection

import "sync/atomic"

// Clock is the logical revision counter of a base collection.
//
// Every successful mutation advances the clock by one before listeners are
// notified, so Notification.Revision is strictly increasing per base.
// Failed mutations never advance it.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next revision and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current revision without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
