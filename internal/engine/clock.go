package engine

import "time"

// Clock abstracts wall time so countdown timers and escalation state can
// be exercised deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewClock returns a Clock backed by the system time.
func NewClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// ManagedClock is a Clock that only moves when told to.
type ManagedClock struct {
	start  time.Time
	offset time.Duration
}

// NewManagedClock returns a ManagedClock frozen at start.
func NewManagedClock(start time.Time) *ManagedClock {
	return &ManagedClock{start: start}
}

func (c *ManagedClock) Now() time.Time {
	return c.start.Add(c.offset)
}

// Advance moves the clock forward by d and returns the new time. There is
// no way to move it backward; time should never go backwards, especially
// in tests.
func (c *ManagedClock) Advance(d time.Duration) time.Time {
	c.offset += d
	return c.Now()
}
