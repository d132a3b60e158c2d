package domain

import "time"

// Clock tracks active elapsed time for one phase against caller-supplied
// instants. It never reads the system clock itself; every method takes
// now, so reads are pure and the engine can share a single time source
// with the rest of the process. Pausing accumulates pause time instead
// of resetting progress, so any number of pause/resume round trips keep
// the elapsed value exact.
type Clock struct {
	activation time.Time
	pauseStart time.Time // zero when not paused
	pausedFor  time.Duration
	planned    time.Duration
}

func NewClock(planned time.Duration, now time.Time) *Clock {
	return &Clock{activation: now, planned: planned}
}

// RehydrateClock rebuilds a clock whose activation instant is backdated
// by elapsed, so Remaining reflects true wall-clock progress since the
// original start rather than a restarted full duration.
func RehydrateClock(planned, elapsed time.Duration, now time.Time) *Clock {
	return &Clock{activation: now.Add(-elapsed), planned: planned}
}

// Pause is idempotent: pausing a paused clock is a no-op.
func (c *Clock) Pause(now time.Time) {
	if !c.pauseStart.IsZero() {
		return
	}
	c.pauseStart = now
}

// Resume is idempotent: resuming a running clock is a no-op.
func (c *Clock) Resume(now time.Time) {
	if c.pauseStart.IsZero() {
		return
	}
	c.pausedFor += now.Sub(c.pauseStart)
	c.pauseStart = time.Time{}
}

func (c *Clock) IsPaused() bool {
	return !c.pauseStart.IsZero()
}

// Elapsed may exceed the planned duration when a tick arrives late;
// callers clamp via Remaining.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(c.activation) - c.pausedFor
	if !c.pauseStart.IsZero() {
		elapsed -= now.Sub(c.pauseStart)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (c *Clock) Remaining(now time.Time) time.Duration {
	remaining := c.planned - c.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Clock) IsFinished(now time.Time) bool {
	return c.Elapsed(now) >= c.planned
}

func (c *Clock) Planned() time.Duration {
	return c.planned
}
