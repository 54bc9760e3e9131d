package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/model"
)

func TestCache_HitAndExpiry(t *testing.T) {
	clk := clock.Fake(now)
	c := NewCache(time.Minute, clk)
	require.NotNil(t, c)

	key := CacheKey{Granularity: model.GranularityHourly, Comparison: model.ComparisonNone, Seed: 7}
	d, err := Build(opts(key.Granularity, key.Comparison, key.Seed))
	require.NoError(t, err)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, d)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, d.Series.Len(), got.Series.Len())

	other := key
	other.Seed = 8
	_, ok = c.Get(other)
	assert.False(t, ok)

	clk.Advance(time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok, "entry expires at exactly ttl")

	c.Set(other, d)
	assert.Equal(t, 1, c.Len(), "expired entries are swept on Set")

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_NilIsDisabled(t *testing.T) {
	c := NewCache(0, nil)
	assert.Nil(t, c)

	key := CacheKey{Granularity: model.GranularityDaily, Comparison: model.ComparisonNone, Seed: 1}
	c.Set(key, Dashboard{})
	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Clear()
}

func TestCacheKey_String(t *testing.T) {
	k := CacheKey{Granularity: model.GranularityWeekly, Comparison: model.ComparisonBaseline, Seed: 42}
	assert.Equal(t, "weekly/baseline/42", k.String())
}
