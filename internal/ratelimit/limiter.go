// Package ratelimit throttles callers by client identity with a minimum
// spacing between calls and a cap per rolling window.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/cache"
	"github.com/docbreaker-games/docbreaker/internal/logging"
)

type Config struct {
	MinInterval time.Duration
	Window      time.Duration
	// calls allowed per Window
	MaxPerWindow int
	// tracked identities; the least recently used are forgotten first
	Capacity int
}

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration

	// the recorded call and the one before it, for Release
	at, prev time.Time
}

type entry struct {
	last   time.Time
	recent []time.Time
}

func New(config Config, now func() time.Time) (*Limiter, error) {
	if config.Capacity <= 0 {
		config.Capacity = 4096
	}
	table, err := cache.NewARC(config.Capacity)
	if err != nil {
		return nil, fmt.Errorf("rate limit table: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	return &Limiter{config: config, table: table, now: now}, nil
}

type Limiter struct {
	// guards check-and-update across table entries
	mtx sync.Mutex

	config Config
	table  cache.Cache
	now    func() time.Time
}

// Allow checks key against both limits and, when allowed, records the call.
func (l *Limiter) Allow(key string) Decision {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.now()
	e := &entry{}
	if v, ok := l.table.Get(key); ok {
		e = v.(*entry)
	}

	if !e.last.IsZero() && l.config.MinInterval > 0 {
		if wait := l.config.MinInterval - now.Sub(e.last); wait > 0 {
			return Decision{RetryAfter: wait}
		}
	}

	e.recent = trim(e.recent, now.Add(-l.config.Window))
	if l.config.MaxPerWindow > 0 && len(e.recent) >= l.config.MaxPerWindow {
		return Decision{RetryAfter: e.recent[0].Add(l.config.Window).Sub(now)}
	}

	prev := e.last
	e.last = now
	e.recent = append(e.recent, now)
	l.table.Add(key, e)

	return Decision{Allowed: true, at: now, prev: prev}
}

// Release takes back a call recorded by an allowing Decision, for calls
// that were admitted but then rejected for another reason.
func (l *Limiter) Release(key string, d Decision) {
	if !d.Allowed {
		return
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()

	v, ok := l.table.Get(key)
	if !ok {
		return
	}
	e := v.(*entry)
	for i := len(e.recent) - 1; i >= 0; i-- {
		if e.recent[i].Equal(d.at) {
			e.recent = append(e.recent[:i], e.recent[i+1:]...)
			break
		}
	}
	if e.last.Equal(d.at) {
		e.last = d.prev
	}
}

func trim(calls []time.Time, since time.Time) []time.Time {
	i := 0
	for i < len(calls) && !calls[i].After(since) {
		i++
	}
	return calls[i:]
}

// Sweep forgets identities idle for longer than both limits.
func (l *Limiter) Sweep() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	ttl := l.config.Window
	if l.config.MinInterval > ttl {
		ttl = l.config.MinInterval
	}

	now := l.now()
	removed := 0
	for _, key := range l.table.Keys() {
		v, ok := l.table.Get(key)
		if !ok {
			continue
		}
		if now.Sub(v.(*entry).last) >= ttl {
			l.table.Delete(key)
			removed++
		}
	}

	return removed
}

func (l *Limiter) Len() int {
	return l.table.Len()
}

// Run sweeps the table every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, name string, interval time.Duration) error {
	logger := logging.FromContext(ctx).Named("ratelimit." + name)
	timer := time.NewTicker(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if n := l.Sweep(); n > 0 {
				logger.Debugf("swept %d idle clients, %d tracked", n, l.Len())
			}
		}
	}
}
