package clock

import (
	"testing"
	"time"
)

type manual struct {
	now time.Time
}

func (m *manual) Now() time.Time {
	return m.now
}

func (m *manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

func TestElapsed(t *testing.T) {
	t.Parallel()

	src := &manual{now: time.Unix(1000, 0)}
	c := New(src.Now)
	c.Start()

	src.Advance(3 * time.Second)
	if got := c.Elapsed(); got != 3*time.Second {
		t.Errorf("expected 3s got %v", got)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	t.Parallel()

	src := &manual{now: time.Unix(1000, 0)}
	c := New(src.Now)
	c.Start()

	deadline := 10 * time.Second
	src.Advance(4 * time.Second)
	before := c.Remaining(deadline)

	c.Pause()
	c.Pause()
	src.Advance(time.Hour)
	if got := c.Remaining(deadline); got != before {
		t.Errorf("remaining changed while paused: %v != %v", got, before)
	}
	if !c.Paused() {
		t.Error("expected paused clock")
	}

	c.Resume()
	c.Resume()
	if got := c.Remaining(deadline); got != before {
		t.Errorf("remaining changed across resume: %v != %v", got, before)
	}

	src.Advance(2 * time.Second)
	if got := c.Remaining(deadline); got != 4*time.Second {
		t.Errorf("expected 4s remaining got %v", got)
	}
}

func TestPauseResumeRoundTripWithoutWallTime(t *testing.T) {
	t.Parallel()

	src := &manual{now: time.Unix(1000, 0)}
	c := New(src.Now)
	c.Start()
	src.Advance(1500 * time.Millisecond)

	deadlines := []time.Duration{time.Second, 2 * time.Second, time.Minute}
	var before []time.Duration
	for _, d := range deadlines {
		before = append(before, c.Remaining(d))
	}

	c.Pause()
	c.Resume()

	for i, d := range deadlines {
		if got := c.Remaining(d); got != before[i] {
			t.Errorf("deadline %v: expected %v got %v", d, before[i], got)
		}
	}
}

func TestStartResets(t *testing.T) {
	t.Parallel()

	src := &manual{now: time.Unix(1000, 0)}
	c := New(src.Now)
	src.Advance(time.Minute)
	c.Pause()
	c.Start()

	if c.Paused() || c.Elapsed() != 0 {
		t.Errorf("expected fresh running clock, paused=%v elapsed=%v", c.Paused(), c.Elapsed())
	}
}
