package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClock_AfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(500*time.Millisecond, func() { fired++ })

	c.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, c.PendingCount())

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.PendingCount())
	assert.Equal(t, epoch.Add(500*time.Millisecond), c.Now())
}

func TestFakeClock_Stop(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFakeClock_RearmingCallbackFiresPerInterval(t *testing.T) {
	c := Fake(epoch)
	var at []time.Time
	var tick func()
	tick = func() {
		at = append(at, c.Now())
		c.AfterFunc(100*time.Millisecond, tick)
	}
	c.AfterFunc(100*time.Millisecond, tick)

	c.Advance(350 * time.Millisecond)
	assert.Equal(t, []time.Time{
		epoch.Add(100 * time.Millisecond),
		epoch.Add(200 * time.Millisecond),
		epoch.Add(300 * time.Millisecond),
	}, at)
	assert.Equal(t, 1, c.PendingCount())
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	assert.False(t, timer.Stop())
}
