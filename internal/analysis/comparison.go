package analysis

import (
	"fmt"

	"energy-dashboard/internal/model"
)

// Profile holds the presentation constants a comparison period applies
// to summary metrics. The values are fixed per period and are not
// derived from the underlying series.
type Profile struct {
	GridDependencyReduction float64 `json:"gridDependencyReduction" cbor:"grid_dependency_reduction"` // %
	EfficiencyImprovement   float64 `json:"efficiencyImprovement" cbor:"efficiency_improvement"`     // %
	AIImpactMultiplier      float64 `json:"aiImpactMultiplier" cbor:"ai_impact_multiplier"`
	CycleEfficiency         float64 `json:"cycleEfficiency" cbor:"cycle_efficiency"` // %
	CostSavings             float64 `json:"costSavings" cbor:"cost_savings"`
	PeakShavingEvents       int     `json:"peakShavingEvents" cbor:"peak_shaving_events"`
	TokenValueChange        float64 `json:"tokenValueChange" cbor:"token_value_change"` // %
}

var profiles = map[model.ComparisonPeriod]Profile{
	model.ComparisonNone: {
		GridDependencyReduction: 25,
		EfficiencyImprovement:   18,
		AIImpactMultiplier:      0.2,
		CycleEfficiency:         92,
		CostSavings:             125.75,
		PeakShavingEvents:       8,
		TokenValueChange:        5.2,
	},
	model.ComparisonPrevious: {
		GridDependencyReduction: 15,
		EfficiencyImprovement:   12,
		AIImpactMultiplier:      0.15,
		CycleEfficiency:         88,
		CostSavings:             95.5,
		PeakShavingEvents:       6,
		TokenValueChange:        2.8,
	},
	model.ComparisonBaseline: {
		GridDependencyReduction: 35,
		EfficiencyImprovement:   28,
		AIImpactMultiplier:      0.3,
		CycleEfficiency:         95,
		CostSavings:             185.25,
		PeakShavingEvents:       12,
		TokenValueChange:        12.5,
	},
}

// ProfileFor looks up the constants for a comparison period.
func ProfileFor(period model.ComparisonPeriod) (Profile, error) {
	p, ok := profiles[period]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", model.ErrUnknownComparison, period)
	}
	return p, nil
}
