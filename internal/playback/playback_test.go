package playback

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/model"
)

func rec(hour int, balance float64) model.DecisionRecord {
	return model.DecisionRecord{
		Step:             fmt.Sprintf("2024-01-01 %02d:00", hour),
		TotalConsumption: 10,
		TotalProduction:  10,
		StorageLevels:    map[string]float64{"S1": 5, "S2": 5},
		TokenBalance:     balance,
		AIDecision:       model.AIDecision{Action: model.ActionHold},
	}
}

func records(n int) []model.DecisionRecord {
	out := make([]model.DecisionRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rec(i, float64(100+i)))
	}
	return out
}

func newEngine(t *testing.T, n int) (*Engine, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e, err := New(records(n), Options{Clock: clk})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, clk
}

func TestNew_EmptyDataset(t *testing.T) {
	_, err := New(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestNew_SortsByStep(t *testing.T) {
	e, err := New([]model.DecisionRecord{rec(2, 3), rec(0, 1), rec(1, 2)}, Options{Clock: clock.Fake(time.Time{})})
	require.NoError(t, err)
	steps := []string{}
	for _, r := range e.Records() {
		steps = append(steps, r.Step)
	}
	assert.Equal(t, []string{"2024-01-01 00:00", "2024-01-01 01:00", "2024-01-01 02:00"}, steps)
	assert.Equal(t, "2024-01-01 02:00", e.LogView()[0].Step)
}

func TestInitialState(t *testing.T) {
	e, _ := newEngine(t, 4)
	v := e.View()
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, StateStopped, v.State)
	assert.Nil(t, v.Previous)
	assert.Empty(t, v.Highlighted)
	assert.Equal(t, DefaultInterval, e.Interval())
}

func TestNext_ClampsAtEnd(t *testing.T) {
	e, _ := newEngine(t, 5)
	for i := 0; i < 4; i++ {
		e.Next()
	}
	assert.Equal(t, 4, e.Index())
	e.Next()
	e.Next()
	assert.Equal(t, 4, e.Index())

	for i := 0; i < 10; i++ {
		e.Previous()
	}
	assert.Equal(t, 0, e.Index())
}

func TestPlay_AdvancesAndAutoStops(t *testing.T) {
	e, clk := newEngine(t, 4)
	e.Play()
	assert.Equal(t, StatePlaying, e.State())
	assert.Equal(t, 1, clk.PendingCount())

	clk.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, e.Index())
	clk.Advance(time.Millisecond)
	assert.Equal(t, 1, e.Index())

	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 2, e.Index())
	assert.Equal(t, StatePlaying, e.State())

	// length-2 -> length-1, then Stopped with no pending tick.
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 3, e.Index())
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 0, clk.PendingCount())

	clk.Advance(5 * time.Second)
	assert.Equal(t, 3, e.Index())
}

func TestPlay_FromEndRewinds(t *testing.T) {
	e, clk := newEngine(t, 3)
	e.Seek(2)
	e.Play()
	assert.Equal(t, 0, e.Index())
	assert.Equal(t, StatePlaying, e.State())

	clk.Advance(time.Second)
	assert.Equal(t, 2, e.Index())
	assert.Equal(t, StateStopped, e.State())
}

func TestPlay_WhilePlayingIsNoop(t *testing.T) {
	e, clk := newEngine(t, 5)
	e.Play()
	clk.Advance(250 * time.Millisecond)
	e.Play()
	assert.Equal(t, 1, clk.PendingCount())

	clk.Advance(250 * time.Millisecond)
	assert.Equal(t, 1, e.Index())
}

func TestPlay_SingleRecordStaysStopped(t *testing.T) {
	e, clk := newEngine(t, 1)
	e.Play()
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 0, clk.PendingCount())
}

func TestPause_CancelsTick(t *testing.T) {
	e, clk := newEngine(t, 5)
	e.Play()
	clk.Advance(500 * time.Millisecond)
	e.Pause()
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 0, clk.PendingCount())

	clk.Advance(10 * time.Second)
	assert.Equal(t, 1, e.Index())
}

func TestManualSteppingStopsPlayback(t *testing.T) {
	for name, step := range map[string]func(*Engine){
		"next":     (*Engine).Next,
		"previous": (*Engine).Previous,
		"select":   func(e *Engine) { e.Select(3) },
	} {
		t.Run(name, func(t *testing.T) {
			e, clk := newEngine(t, 6)
			e.Play()
			clk.Advance(time.Second)
			require.Equal(t, 2, e.Index())

			step(e)
			assert.Equal(t, StateStopped, e.State())
			assert.Equal(t, 0, clk.PendingCount())

			idx := e.Index()
			clk.Advance(5 * time.Second)
			assert.Equal(t, idx, e.Index())
		})
	}
}

func TestSeek_KeepsPlayStateAndClamps(t *testing.T) {
	e, clk := newEngine(t, 6)
	e.Seek(-3)
	assert.Equal(t, 0, e.Index())
	e.Seek(99)
	assert.Equal(t, 5, e.Index())

	e.Seek(1)
	e.Play()
	e.Seek(3)
	assert.Equal(t, StatePlaying, e.State())
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 4, e.Index())
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 5, e.Index())
	assert.Equal(t, StateStopped, e.State())
}

func TestSeekToLastWhilePlayingStopsOnNextTick(t *testing.T) {
	e, clk := newEngine(t, 4)
	e.Play()
	e.Seek(3)
	assert.Equal(t, StatePlaying, e.State())
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 3, e.Index())
	assert.Equal(t, StateStopped, e.State())
}

func TestToggle(t *testing.T) {
	e, clk := newEngine(t, 4)
	e.Toggle()
	assert.Equal(t, StatePlaying, e.State())
	e.Toggle()
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 0, clk.PendingCount())
}

func TestClose_CancelsAndFreezes(t *testing.T) {
	e, clk := newEngine(t, 4)
	calls := 0
	e.OnChange(func(View) { calls++ })
	e.Play()
	e.Close()
	assert.Equal(t, 0, clk.PendingCount())

	clk.Advance(time.Second)
	e.Next()
	e.Play()
	assert.Equal(t, 0, e.Index())
	assert.Equal(t, 1, calls)
	e.Close()
}

func TestOnChange(t *testing.T) {
	e, clk := newEngine(t, 3)
	var mu sync.Mutex
	var seen []int
	unsubscribe := e.OnChange(func(v View) {
		mu.Lock()
		seen = append(seen, v.Index)
		mu.Unlock()
		// Listeners run outside the lock.
		_ = e.Index()
	})

	e.Next()
	e.Next()
	e.Next() // clamped, no change
	e.Previous()
	e.Play()
	clk.Advance(500 * time.Millisecond)
	unsubscribe()
	e.Previous()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 1, 1, 2}, seen)
}

func TestView_HighlightsAndDeltas(t *testing.T) {
	a := rec(0, 100)
	b := rec(1, 110)
	b.TotalConsumption = 10.2
	b.StorageLevels = map[string]float64{"S1": 6, "S2": 5}
	e, err := New([]model.DecisionRecord{a, b}, Options{Clock: clock.Fake(time.Time{})})
	require.NoError(t, err)

	e.Next()
	v := e.View()
	require.NotNil(t, v.Previous)
	assert.Equal(t, a.Step, v.Previous.Step)
	assert.Equal(t, []string{"storage_S1_level", "token_balance"}, v.Highlighted)
	assert.True(t, v.IsHighlighted("token_balance"))
	assert.False(t, v.IsHighlighted("total_consumption"))
	assert.InDelta(t, 10.0, v.Deltas["token_balance"], 1e-9)
	assert.InDelta(t, 0.2, v.Deltas["total_consumption"], 1e-9)
	assert.Equal(t, Domain{Lo: 99, Hi: 111}, v.Domain)
}

func TestHighlights(t *testing.T) {
	prev := model.DecisionRecord{TotalProduction: 100, EnergySoldToGrid: 0, TokenBalance: 100, CostFromGrid: -4}
	cur := model.DecisionRecord{TotalProduction: 110, EnergySoldToGrid: 5, TokenBalance: 102, CostFromGrid: -4.5}
	assert.Equal(t, []string{"cost_from_grid", "total_production"}, Highlights(cur, prev, DefaultThreshold))

	exact := model.DecisionRecord{TotalProduction: 105}
	assert.Empty(t, Highlights(exact, model.DecisionRecord{TotalProduction: 100}, DefaultThreshold))
}

func TestHighlights_OnlySharedStorageFields(t *testing.T) {
	prev := model.DecisionRecord{StorageLevels: map[string]float64{"S1": 10}}
	cur := model.DecisionRecord{StorageLevels: map[string]float64{"S1": 10, "S3": 50}}
	assert.Empty(t, Highlights(cur, prev, DefaultThreshold))
	_, ok := Deltas(cur, prev)["storage_S3_level"]
	assert.False(t, ok)
}

func TestRelativeChange(t *testing.T) {
	assert.InDelta(t, 0.10, RelativeChange(110, 100), 1e-12)
	assert.InDelta(t, 0.02, RelativeChange(102, 100), 1e-12)
	assert.Equal(t, 0.0, RelativeChange(5, 0))
	assert.InDelta(t, 0.5, RelativeChange(-3, -2), 1e-12)
}

func TestAxisDomain(t *testing.T) {
	d, ok := AxisDomain([]float64{100, 150, 90})
	require.True(t, ok)
	assert.Equal(t, Domain{Lo: 84, Hi: 156}, d)

	d, ok = AxisDomain([]float64{-4.5})
	require.True(t, ok)
	assert.Equal(t, Domain{Lo: -5, Hi: -4}, d)

	_, ok = AxisDomain(nil)
	assert.False(t, ok)
}

func TestView_DomainTracksVisiblePrefix(t *testing.T) {
	e, err := New([]model.DecisionRecord{rec(0, 100), rec(1, 150), rec(2, 90)}, Options{Clock: clock.Fake(time.Time{})})
	require.NoError(t, err)

	assert.Equal(t, Domain{Lo: 100, Hi: 100}, e.View().Domain)
	e.Seek(2)
	assert.Equal(t, Domain{Lo: 84, Hi: 156}, e.View().Domain)
	assert.Len(t, e.Visible(), 3)
}

func TestDomain_JSON(t *testing.T) {
	raw, err := Domain{Lo: 84, Hi: 156}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[84,156]`, string(raw))

	var d Domain
	require.NoError(t, d.UnmarshalJSON([]byte(`[1.5,2]`)))
	assert.Equal(t, Domain{Lo: 1.5, Hi: 2}, d)
}

func TestRealClock_PauseBeforeTick(t *testing.T) {
	e, err := New(records(3), Options{Clock: clock.Real(), Interval: time.Hour})
	require.NoError(t, err)
	e.Play()
	e.Pause()
	e.Close()
	assert.Equal(t, 0, e.Index())
}
