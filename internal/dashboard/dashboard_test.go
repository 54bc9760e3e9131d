package dashboard

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/timeaxis"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func opts(g model.Granularity, c model.ComparisonPeriod, seed int64) Options {
	return Options{
		Now:         now,
		Granularity: g,
		Comparison:  c,
		Source:      generator.NewSource(seed),
		Params:      simulation.DefaultParams(),
	}
}

func TestBuild_SeriesLengthPerGranularity(t *testing.T) {
	cases := map[model.Granularity]int{
		model.GranularityHourly:  24,
		model.GranularityDaily:   30,
		model.GranularityWeekly:  12,
		model.GranularityMonthly: 12,
	}
	for g, want := range cases {
		t.Run(string(g), func(t *testing.T) {
			d, err := Build(opts(g, model.ComparisonNone, 1))
			require.NoError(t, err)
			assert.Equal(t, want, d.Series.Len())
			assert.Len(t, d.Financial.Timeseries, want)
			assert.Len(t, d.Storage.Timeseries, want)
			assert.Len(t, d.Tokens.Timeseries, want)
			assert.Equal(t, now, d.Series.Timestamps[want-1])
			assert.Len(t, d.Decisions, generator.NarrativeCount)
		})
	}
}

func TestBuild_ComparisonProfileApplied(t *testing.T) {
	d, err := Build(opts(model.GranularityDaily, model.ComparisonBaseline, 4))
	require.NoError(t, err)
	assert.Equal(t, 35.0, d.EnergyBalance.GridDependencyReduction)
	assert.Equal(t, 95.0, d.Storage.Metrics.CycleEfficiency)
	assert.Equal(t, 12.5, d.Tokens.Metrics.TokenValueChange)
}

func TestBuild_Reproducible(t *testing.T) {
	a, err := Build(opts(model.GranularityHourly, model.ComparisonPrevious, 42))
	require.NoError(t, err)
	b, err := Build(opts(model.GranularityHourly, model.ComparisonPrevious, 42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(opts("yearly", model.ComparisonNone, 1))
	assert.ErrorIs(t, err, timeaxis.ErrInvalidGranularity)

	_, err = Build(opts(model.GranularityDaily, "last-year", 1))
	assert.ErrorIs(t, err, model.ErrUnknownComparison)

	o := opts(model.GranularityDaily, model.ComparisonNone, 1)
	o.Source = nil
	_, err = Build(o)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	d, err := Build(opts(model.GranularityHourly, model.ComparisonPrevious, 9))
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatJSON))
		var raw map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
		assert.Equal(t, "hourly", raw["granularity"])
		assert.Contains(t, raw, "energyBalance")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatCSV))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 25)
		assert.True(t, strings.HasPrefix(lines[0], "index,timestamp,"))
	})

	t.Run("cbor", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, d, FormatCBOR))
		back, err := DecodeCBOR(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, d.Granularity, back.Granularity)
		assert.Equal(t, d.Comparison, back.Comparison)
		assert.True(t, d.GeneratedAt.Equal(back.GeneratedAt))
		assert.Equal(t, d.Series.Len(), back.Series.Len())
		assert.Len(t, back.Financial.Timeseries, 24)
		assert.Equal(t, d.Tokens.Metrics, back.Tokens.Metrics)

		var again bytes.Buffer
		require.NoError(t, Export(&again, d, FormatCBOR))
		assert.Equal(t, buf.Bytes(), again.Bytes())
	})

	assert.Error(t, Export(&bytes.Buffer{}, d, Format("xml")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("cbor")
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
