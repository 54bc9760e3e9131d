package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a deterministic Clock for testing. Time advances only
// when Advance is called; AfterFunc callbacks run synchronously inside
// Advance in deadline order. Callbacks may schedule new timers.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
	seq     int
}

type fakeWaiter struct {
	deadline time.Time
	seq      int
	callback func()
	stopped  bool
	fired    bool
}

// Fake returns a FakeClock initialized to the given time.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		seq:      c.seq,
		callback: f,
	}
	c.waiters = append(c.waiters, waiter)

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if waiter.stopped || waiter.fired {
				return false
			}
			waiter.stopped = true
			return true
		},
	}
}

// Advance moves the clock forward by d, firing every timer whose
// deadline falls within the new time, including timers scheduled by
// callbacks fired during this call. The clock reads each callback's
// deadline while that callback runs.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		waiter := c.nextExpired(target)
		if waiter == nil {
			break
		}
		waiter.callback()
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()
}

// nextExpired pops the earliest live waiter due by target and moves
// the clock to its deadline.
func (c *FakeClock) nextExpired(target time.Time) *fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			live = append(live, w)
		}
	}
	c.waiters = live

	sort.SliceStable(c.waiters, func(i, j int) bool {
		if c.waiters[i].deadline.Equal(c.waiters[j].deadline) {
			return c.waiters[i].seq < c.waiters[j].seq
		}
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	if len(c.waiters) == 0 || c.waiters[0].deadline.After(target) {
		return nil
	}
	w := c.waiters[0]
	w.fired = true
	c.waiters = c.waiters[1:]
	if w.deadline.After(c.current) {
		c.current = w.deadline
	}
	return w
}

// PendingCount returns the number of timers that have neither fired
// nor been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			n++
		}
	}
	return n
}
