package timeaxis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/model"
)

var now = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func TestBuild_Hourly(t *testing.T) {
	ts, err := Build(now, 24, 1, model.UnitHour)
	require.NoError(t, err)
	require.Len(t, ts, 24)

	assert.Equal(t, now, ts[23])
	assert.Equal(t, now.Add(-23*time.Hour), ts[0])
	for i := 1; i < len(ts); i++ {
		assert.Equal(t, time.Hour, ts[i].Sub(ts[i-1]))
	}
}

func TestBuild_StrictlyIncreasing(t *testing.T) {
	for _, unit := range []model.Unit{model.UnitHour, model.UnitDay, model.UnitWeek, model.UnitMonth} {
		t.Run(string(unit), func(t *testing.T) {
			ts, err := Build(now, 12, 2, unit)
			require.NoError(t, err)
			require.Len(t, ts, 12)
			for i := 1; i < len(ts); i++ {
				assert.True(t, ts[i].After(ts[i-1]), "index %d", i)
			}
			assert.Equal(t, now, ts[len(ts)-1])
		})
	}
}

func TestBuild_WeekAndMonth(t *testing.T) {
	weeks, err := Build(now, 3, 1, model.UnitWeek)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), weeks[0])

	months, err := Build(now, 3, 1, model.UnitMonth)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC), months[0])
}

func TestBuild_Invalid(t *testing.T) {
	_, err := Build(now, 5, 1, model.Unit("fortnight"))
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = Build(now, 5, 0, model.UnitDay)
	assert.Error(t, err)

	_, err = ForGranularity(now, model.Granularity("yearly"))
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestForGranularity_Counts(t *testing.T) {
	counts := map[model.Granularity]int{
		model.GranularityHourly:  24,
		model.GranularityDaily:   30,
		model.GranularityWeekly:  12,
		model.GranularityMonthly: 12,
	}
	for g, want := range counts {
		ts, err := ForGranularity(now, g)
		require.NoError(t, err)
		assert.Len(t, ts, want, string(g))
	}
}
