package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/timeaxis"
)

func at(hour int) time.Time {
	return time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestProfileFor(t *testing.T) {
	none, err := ProfileFor(model.ComparisonNone)
	require.NoError(t, err)
	assert.Equal(t, 25.0, none.GridDependencyReduction)
	assert.Equal(t, 8, none.PeakShavingEvents)

	prev, err := ProfileFor(model.ComparisonPrevious)
	require.NoError(t, err)
	assert.Equal(t, 0.15, prev.AIImpactMultiplier)
	assert.Equal(t, 95.5, prev.CostSavings)

	base, err := ProfileFor(model.ComparisonBaseline)
	require.NoError(t, err)
	assert.Equal(t, 95.0, base.CycleEfficiency)
	assert.Equal(t, 12.5, base.TokenValueChange)

	_, err = ProfileFor("yearly")
	assert.ErrorIs(t, err, model.ErrUnknownComparison)
}

func TestSelfSufficiency(t *testing.T) {
	assert.Equal(t, 0.0, SelfSufficiency(10, 0))
	assert.Equal(t, 0.5, SelfSufficiency(5, 10))
	assert.Equal(t, 1.0, SelfSufficiency(30, 10))
}

func TestComputeEnergyBalance(t *testing.T) {
	s := model.Series{
		Consumption: []model.ConsumptionSample{{Total: 100}, {Total: 50}},
		Production:  []model.ProductionSample{{Total: 60}, {Total: 80}},
		Storage:     []model.StorageSample{{DischargingRate: 4}, {DischargingRate: 0}},
		Grid:        []model.GridSample{{Import: 40}, {Export: 30}},
	}
	profile, err := ProfileFor(model.ComparisonBaseline)
	require.NoError(t, err)

	b := ComputeEnergyBalance(s, profile)
	assert.Equal(t, 150.0, b.TotalConsumption)
	assert.Equal(t, 140.0, b.TotalProduction)
	assert.Equal(t, 40.0, b.GridBought)
	assert.Equal(t, 30.0, b.GridSold)
	assert.Equal(t, 4.0, b.StorageUsed)
	assert.Equal(t, 35.0, b.GridDependencyReduction)
	assert.Equal(t, 28.0, b.EfficiencyImprovement)
	assert.InDelta(t, 140.0/150.0, b.SelfSufficiencyRate, 1e-12)
}

func TestFinancialBasePrice(t *testing.T) {
	assert.Equal(t, 0.15, FinancialBasePrice(16))
	assert.Equal(t, 0.25, FinancialBasePrice(17))
	assert.Equal(t, 0.25, FinancialBasePrice(21))
	assert.Equal(t, 0.15, FinancialBasePrice(22))
}

func TestComputeFinancial(t *testing.T) {
	grid := []model.GridSample{
		{Timestamp: at(18), Import: 10, Price: 0.1},
		{Timestamp: at(3), Export: 10, Price: 0.2},
	}
	profile, err := ProfileFor(model.ComparisonNone)
	require.NoError(t, err)

	f := ComputeFinancial(grid, profile)
	require.Len(t, f.Timeseries, 2)

	peak := f.Timeseries[0]
	assert.InDelta(t, -2.5, peak.CostBought, 1e-9)
	assert.InDelta(t, -0.5, peak.TokenCosts, 1e-9)
	assert.Equal(t, 0.0, peak.RevenueSold)
	assert.InDelta(t, -3.0, peak.NetSavings, 1e-9)
	assert.InDelta(t, 0.6, peak.AIImpact, 1e-9)

	night := f.Timeseries[1]
	assert.InDelta(t, 1.2, night.RevenueSold, 1e-9)
	assert.InDelta(t, 0.8, night.TokenRevenue, 1e-9)
	assert.InDelta(t, 2.0, night.NetSavings, 1e-9)

	assert.Equal(t, 2, f.GridPrices.Count)
	assert.Equal(t, 0.1, f.GridPrices.Min)
	assert.Equal(t, 0.2, f.GridPrices.Max)
}

func TestSummarizePrices_Percentiles(t *testing.T) {
	var grid []model.GridSample
	for _, p := range []float64{5, 3, 1, 4, 2} {
		grid = append(grid, model.GridSample{Price: p})
	}
	s := SummarizePrices(grid)
	assert.Equal(t, 3.0, s.Mean)
	assert.InDelta(t, 1.2, s.P05, 1e-9)
	assert.InDelta(t, 4.8, s.P95, 1e-9)
	assert.InDelta(t, 3.6, s.Spread, 1e-9)

	assert.Equal(t, PriceSummary{}, SummarizePrices(nil))
}

func TestComputeStorageOptimization(t *testing.T) {
	storage := []model.StorageSample{
		{Timestamp: at(10), BatteryLevel: 100, BatteryCapacity: 500, ChargingRate: 5},
		{Timestamp: at(23), BatteryLevel: 300, BatteryCapacity: 500, DischargingRate: 7},
	}
	profile, err := ProfileFor(model.ComparisonPrevious)
	require.NoError(t, err)

	o := ComputeStorageOptimization(storage, profile)
	require.Len(t, o.Timeseries, 2)
	assert.Equal(t, 150.0, o.Timeseries[0].OptimalLevel)
	assert.Equal(t, 350.0, o.Timeseries[1].OptimalLevel)
	assert.Equal(t, 5.0, o.Timeseries[0].EnergyAdded)
	assert.Equal(t, 7.0, o.Timeseries[1].EnergyRetrieved)
	assert.InDelta(t, 40.0, o.Metrics.AverageUtilization, 1e-9)
	assert.Equal(t, 88.0, o.Metrics.CycleEfficiency)
	assert.Equal(t, 6, o.Metrics.PeakShavingEvents)
}

func TestComputeTokenEconomy(t *testing.T) {
	tokens := []model.TokenSample{
		{TokensEarned: 10, TokensBurned: 2, GridTokensBurned: 1},
		{TokensEarned: 0, TokensBurned: 6, GridTokensBurned: 4},
	}
	profile, err := ProfileFor(model.ComparisonNone)
	require.NoError(t, err)

	e := ComputeTokenEconomy(tokens, profile)
	assert.Equal(t, 10.0, e.Metrics.TotalTokensEarned)
	assert.Equal(t, 13.0, e.Metrics.TotalTokensBurned)
	assert.Equal(t, -3.0, e.Metrics.NetTokenChange)
	assert.Equal(t, 5.2, e.Metrics.TokenValueChange)
	assert.Len(t, e.Timeseries, 2)
}

func TestSummarize_DeterministicForSeries(t *testing.T) {
	axis, err := timeaxis.ForGranularity(at(12), model.GranularityHourly)
	require.NoError(t, err)
	series, err := simulation.New(simulation.DefaultParams()).Run(axis, generator.NewSource(3))
	require.NoError(t, err)

	a, err := Summarize(series, model.ComparisonBaseline)
	require.NoError(t, err)
	b, err := Summarize(series, model.ComparisonBaseline)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a.Financial.Timeseries, 24)
	assert.Len(t, a.Storage.Timeseries, 24)

	_, err = Summarize(series, "bogus")
	assert.ErrorIs(t, err, model.ErrUnknownComparison)
}
