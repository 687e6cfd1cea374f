package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mtx sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, config Config) (*Limiter, *manualClock) {
	t.Helper()

	clock := &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l, err := New(config, clock.Now)
	if err != nil {
		t.Fatal(err)
	}
	return l, clock
}

func TestAllowMinInterval(t *testing.T) {
	t.Parallel()

	l, clock := newLimiter(t, Config{MinInterval: 20 * time.Second, Window: time.Minute, MaxPerWindow: 3})
	if !l.Allow("a").Allowed {
		t.Fatal("first call must pass")
	}

	clock.Advance(5 * time.Second)
	d := l.Allow("a")
	if d.Allowed {
		t.Fatal("expected spacing rejection")
	}
	if d.RetryAfter != 15*time.Second {
		t.Errorf("expected retry after 15s got %v", d.RetryAfter)
	}

	if !l.Allow("b").Allowed {
		t.Error("other identities are independent")
	}

	clock.Advance(15 * time.Second)
	if !l.Allow("a").Allowed {
		t.Error("expected pass after spacing elapsed")
	}
}

func TestAllowWindowCap(t *testing.T) {
	t.Parallel()

	l, clock := newLimiter(t, Config{MinInterval: time.Second, Window: time.Minute, MaxPerWindow: 2})
	for i := 0; i < 2; i++ {
		if !l.Allow("a").Allowed {
			t.Fatalf("call %d must pass", i)
		}
		clock.Advance(10 * time.Second)
	}

	d := l.Allow("a")
	if d.Allowed {
		t.Fatal("expected window cap rejection")
	}
	if d.RetryAfter != 40*time.Second {
		t.Errorf("expected retry after 40s got %v", d.RetryAfter)
	}

	clock.Advance(40 * time.Second)
	if !l.Allow("a").Allowed {
		t.Error("expected pass once the oldest call left the window")
	}
}

func TestAllowConcurrentSameIdentity(t *testing.T) {
	t.Parallel()

	l, _ := newLimiter(t, Config{MinInterval: 20 * time.Second, Window: time.Minute, MaxPerWindow: 3})

	var (
		wg      sync.WaitGroup
		mtx     sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("same").Allowed {
				mtx.Lock()
				allowed++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 1 {
		t.Errorf("expected exactly one call to pass got %d", allowed)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	l, clock := newLimiter(t, Config{MinInterval: 20 * time.Second, Window: time.Minute, MaxPerWindow: 3})
	l.Allow("a")
	clock.Advance(30 * time.Second)
	l.Allow("b")

	clock.Advance(30 * time.Second)
	if n := l.Sweep(); n != 1 {
		t.Errorf("expected one swept entry got %d", n)
	}
	if l.Len() != 1 {
		t.Errorf("expected one tracked entry got %d", l.Len())
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	l, clock := newLimiter(t, Config{MinInterval: 30 * time.Second, Window: time.Minute, MaxPerWindow: 2})
	if !l.Allow("a").Allowed {
		t.Fatal("first call must pass")
	}

	clock.Advance(40 * time.Second)
	d := l.Allow("a")
	if !d.Allowed {
		t.Fatal("second call must pass")
	}
	l.Release("a", d)

	// the released call freed both the spacing slot and the window slot
	if !l.Allow("a").Allowed {
		t.Error("expected pass after release")
	}

	clock.Advance(time.Second)
	if l.Allow("a").Allowed {
		t.Error("expected spacing to apply to the kept call")
	}

	l.Release("b", Decision{})
	l.Release("a", Decision{RetryAfter: time.Second})
}
