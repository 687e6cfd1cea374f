// Package clock measures game time, which stops while the game is paused.
package clock

import (
	"sync"
	"time"
)

// Clock reports elapsed game time since Start. Time spent paused is
// accumulated and subtracted, so deadlines expressed in game time keep
// their remaining duration across a pause.
type Clock struct {
	mtx sync.Mutex

	source  func() time.Time
	origin  time.Time
	paused  bool
	pauseAt time.Time
	// total time spent paused since origin
	offset time.Duration
}

func New(source func() time.Time) *Clock {
	if source == nil {
		source = time.Now
	}
	c := &Clock{source: source}
	c.origin = source()
	return c
}

// Start resets game time to zero and resumes the clock.
func (c *Clock) Start() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.origin = c.source()
	c.paused = false
	c.offset = 0
}

func (c *Clock) Elapsed() time.Duration {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	now := c.source()
	if c.paused {
		now = c.pauseAt
	}
	return now.Sub(c.origin) - c.offset
}

func (c *Clock) Pause() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.paused {
		return
	}
	c.paused = true
	c.pauseAt = c.source()
}

func (c *Clock) Resume() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.paused {
		return
	}
	c.paused = false
	c.offset += c.source().Sub(c.pauseAt)
}

func (c *Clock) Paused() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.paused
}

// Remaining returns how much game time is left until deadline, never negative.
func (c *Clock) Remaining(deadline time.Duration) time.Duration {
	if r := deadline - c.Elapsed(); r > 0 {
		return r
	}
	return 0
}
