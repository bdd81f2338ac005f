package engine

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic logical clock that stamps journal entries.
//
// Entries are ordered by seq, never by wall time, so a journal reads the
// same regardless of clock skew between sessions.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to resume after the last journal entry of a previous session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// TimeSource supplies wall-clock timestamps in Unix milliseconds for
// Game.CreatedAt and Round.Timestamp.
type TimeSource interface {
	NowMillis() int64
}

// SystemTime reads the host clock.
type SystemTime struct{}

// NowMillis returns the current Unix time in milliseconds.
func (SystemTime) NowMillis() int64 {
	return time.Now().UnixMilli()
}
