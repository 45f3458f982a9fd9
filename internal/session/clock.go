package session

import "time"

// Clock tracks the start and end of a session and reports elapsed time.
type Clock struct {
	start  time.Time
	end    time.Time
	frozen float64
	high   float64
}

// Start records the first keystroke. Later calls are ignored.
func (c *Clock) Start(now time.Time) {
	if !c.start.IsZero() {
		return
	}
	c.start = now
}

// Stop freezes the clock at now. Later calls are ignored.
func (c *Clock) Stop(now time.Time) {
	if c.start.IsZero() || !c.end.IsZero() {
		return
	}
	c.frozen = c.Elapsed(now)
	c.end = now
}

// Started reports whether Start has been called.
func (c *Clock) Started() bool {
	return !c.start.IsZero()
}

// Stopped reports whether Stop has been called.
func (c *Clock) Stopped() bool {
	return !c.end.IsZero()
}

// Elapsed returns seconds since Start: 0 before it, the frozen value after
// Stop, and otherwise a value that never decreases between calls.
func (c *Clock) Elapsed(now time.Time) float64 {
	if c.start.IsZero() {
		return 0
	}
	if !c.end.IsZero() {
		return c.frozen
	}
	elapsed := now.Sub(c.start).Seconds()
	if elapsed > c.high {
		c.high = elapsed
	}
	return c.high
}
