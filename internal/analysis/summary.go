// Package analysis reduces generated series into the dashboard's
// summary metrics, scaled by a comparison-period profile.
package analysis

import "energy-dashboard/internal/model"

// Summary is every aggregate for one series and comparison period.
type Summary struct {
	Comparison    model.ComparisonPeriod `json:"comparisonPeriod" cbor:"comparison_period"`
	Profile       Profile                `json:"profile" cbor:"profile"`
	EnergyBalance EnergyBalance          `json:"energyBalance" cbor:"energy_balance"`
	Financial     Financial              `json:"financial" cbor:"financial"`
	Storage       StorageOptimization    `json:"storage" cbor:"storage"`
	Tokens        TokenEconomy           `json:"tokens" cbor:"tokens"`
}

// Summarize is a pure reduction: equal inputs give equal outputs.
func Summarize(s model.Series, period model.ComparisonPeriod) (Summary, error) {
	profile, err := ProfileFor(period)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Comparison:    period,
		Profile:       profile,
		EnergyBalance: ComputeEnergyBalance(s, profile),
		Financial:     ComputeFinancial(s.Grid, profile),
		Storage:       ComputeStorageOptimization(s.Storage, profile),
		Tokens:        ComputeTokenEconomy(s.Tokens, profile),
	}, nil
}
