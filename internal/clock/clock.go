// Package clock abstracts the time operations the playback engine needs
// so that auto-play can be driven deterministically in tests.
package clock

import "time"

// Clock is the subset of the time package used by timer-driven code.
// Production code injects Real(); tests inject Fake().
type Clock interface {
	Now() time.Time

	// AfterFunc waits for d, then calls f. The returned Timer cancels
	// the pending call with Stop.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer represents a scheduled callback.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns true if the call stops
// the timer, false if it has already fired or been stopped.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	return t.stopFunc()
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop}
}
