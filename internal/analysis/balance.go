package analysis

import (
	"math"

	"energy-dashboard/internal/model"
)

// EnergyBalance summarises energy flows over the whole series.
type EnergyBalance struct {
	TotalConsumption        float64 `json:"totalConsumption" cbor:"total_consumption"`
	TotalProduction         float64 `json:"totalProduction" cbor:"total_production"`
	GridBought              float64 `json:"gridBought" cbor:"grid_bought"`
	GridSold                float64 `json:"gridSold" cbor:"grid_sold"`
	StorageUsed             float64 `json:"storageUsed" cbor:"storage_used"`
	GridDependencyReduction float64 `json:"gridDependencyReduction" cbor:"grid_dependency_reduction"`
	EfficiencyImprovement   float64 `json:"efficiencyImprovement" cbor:"efficiency_improvement"`
	SelfSufficiencyRate     float64 `json:"selfSufficiencyRate" cbor:"self_sufficiency_rate"`
}

// SelfSufficiency is min(1, production/consumption), or 0 when there is
// no consumption.
func SelfSufficiency(production, consumption float64) float64 {
	if consumption == 0 {
		return 0
	}
	return math.Min(1, production/consumption)
}

func ComputeEnergyBalance(s model.Series, profile Profile) EnergyBalance {
	b := EnergyBalance{
		GridDependencyReduction: profile.GridDependencyReduction,
		EfficiencyImprovement:   profile.EfficiencyImprovement,
	}
	for _, c := range s.Consumption {
		b.TotalConsumption += c.Total
	}
	for _, p := range s.Production {
		b.TotalProduction += p.Total
	}
	for _, g := range s.Grid {
		b.GridBought += g.Import
		b.GridSold += g.Export
	}
	for _, st := range s.Storage {
		b.StorageUsed += st.DischargingRate
	}
	b.SelfSufficiencyRate = SelfSufficiency(b.TotalProduction, b.TotalConsumption)
	return b
}
