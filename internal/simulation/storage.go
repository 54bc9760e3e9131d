// Package simulation evolves the stateful and derived series that sit
// between the domain generators and the aggregation layer: battery
// storage, grid exchange and the token ledger.
package simulation

import (
	"fmt"

	"energy-dashboard/internal/model"
)

// StorageParams configures the single community battery.
type StorageParams struct {
	Capacity     float64
	Efficiency   float64
	InitialLevel float64
}

func DefaultStorageParams() StorageParams {
	return StorageParams{Capacity: 500, Efficiency: 0.8, InitialLevel: 250}
}

func checkLengths(consumption []model.ConsumptionSample, production []model.ProductionSample) error {
	if len(consumption) != len(production) {
		return fmt.Errorf("consumption has %d samples, production has %d", len(consumption), len(production))
	}
	return nil
}

// SimulateStorage folds the energy delta of every step into a clamped
// battery level series. The fold starts from InitialLevel, so
// level[0] = clamp(InitialLevel + charge[0] - discharge[0], 0, Capacity).
func SimulateStorage(consumption []model.ConsumptionSample, production []model.ProductionSample, params StorageParams) ([]model.StorageSample, error) {
	if err := checkLengths(consumption, production); err != nil {
		return nil, err
	}
	batt, err := model.NewBattery(model.BatteryParams{
		Capacity:   params.Capacity,
		Efficiency: params.Efficiency,
	}, params.InitialLevel)
	if err != nil {
		return nil, fmt.Errorf("storage params invalid: %w", err)
	}

	out := make([]model.StorageSample, 0, len(consumption))
	for i := range consumption {
		res := batt.Apply(production[i].Total - consumption[i].Total)
		out = append(out, model.StorageSample{
			Timestamp:                consumption[i].Timestamp,
			BatteryLevel:             res.LevelEnd,
			BatteryCapacity:          params.Capacity,
			ChargingRate:             res.Charge,
			DischargingRate:          res.Discharge,
			RequestedChargingRate:    res.RequestedCharge,
			RequestedDischargingRate: res.RequestedDischarge,
		})
	}
	return out, nil
}
