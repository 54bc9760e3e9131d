package analysis

import (
	"time"

	"energy-dashboard/internal/model"
)

const (
	optimalPeakStart = 9
	optimalPeakEnd   = 20
	optimalPeakShare = 0.3
	optimalOffShare  = 0.7
)

// OptimalLevel is the target battery level for an hour: low during the
// daytime peak so the battery can absorb surplus, high otherwise.
func OptimalLevel(hour int, capacity float64) float64 {
	if hour >= optimalPeakStart && hour <= optimalPeakEnd {
		return capacity * optimalPeakShare
	}
	return capacity * optimalOffShare
}

type StoragePoint struct {
	Timestamp       time.Time `json:"timestamp" cbor:"timestamp"`
	StorageLevel    float64   `json:"storageLevel" cbor:"storage_level"`
	EnergyAdded     float64   `json:"energyAdded" cbor:"energy_added"`
	EnergyRetrieved float64   `json:"energyRetrieved" cbor:"energy_retrieved"`
	OptimalLevel    float64   `json:"optimalLevel" cbor:"optimal_level"`
}

type StorageMetrics struct {
	AverageUtilization float64 `json:"averageUtilization" cbor:"average_utilization"` // %
	CycleEfficiency    float64 `json:"cycleEfficiency" cbor:"cycle_efficiency"`
	CostSavings        float64 `json:"costSavings" cbor:"cost_savings"`
	PeakShavingEvents  int     `json:"peakShavingEvents" cbor:"peak_shaving_events"`
}

type StorageOptimization struct {
	Timeseries []StoragePoint `json:"timeseries" cbor:"timeseries"`
	Metrics    StorageMetrics `json:"metrics" cbor:"metrics"`
}

func ComputeStorageOptimization(storage []model.StorageSample, profile Profile) StorageOptimization {
	out := StorageOptimization{
		Timeseries: make([]StoragePoint, 0, len(storage)),
		Metrics: StorageMetrics{
			CycleEfficiency:   profile.CycleEfficiency,
			CostSavings:       profile.CostSavings,
			PeakShavingEvents: profile.PeakShavingEvents,
		},
	}
	if len(storage) == 0 {
		return out
	}

	sum := 0.0
	for _, st := range storage {
		out.Timeseries = append(out.Timeseries, StoragePoint{
			Timestamp:       st.Timestamp,
			StorageLevel:    st.BatteryLevel,
			EnergyAdded:     st.ChargingRate,
			EnergyRetrieved: st.DischargingRate,
			OptimalLevel:    OptimalLevel(st.Timestamp.Hour(), st.BatteryCapacity),
		})
		sum += st.BatteryLevel
	}
	capacity := storage[0].BatteryCapacity
	if capacity > 0 {
		out.Metrics.AverageUtilization = sum / float64(len(storage)) / capacity * 100
	}
	return out
}
