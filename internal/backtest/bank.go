package backtest

import (
	"fmt"

	"energy-dashboard/internal/model"
)

// Bank is an ordered set of storage units driven as one. Charging and
// discharging fill or drain units in declaration order.
type Bank struct {
	units []model.StorageUnit
	cells []*model.Battery
}

// NewBank builds a bank with the given starting levels keyed by unit ID.
// Units missing from initial start empty.
func NewBank(units []model.StorageUnit, initial map[string]float64) (*Bank, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("no storage units")
	}
	b := &Bank{units: append([]model.StorageUnit(nil), units...)}
	seen := map[string]bool{}
	for _, u := range units {
		if seen[u.ID] {
			return nil, fmt.Errorf("duplicate storage unit %q", u.ID)
		}
		seen[u.ID] = true
		// Decision datasets record levels without conversion losses.
		cell, err := model.NewBattery(model.BatteryParams{Capacity: u.Capacity, Efficiency: 1}, initial[u.ID])
		if err != nil {
			return nil, fmt.Errorf("storage unit %q: %w", u.ID, err)
		}
		b.cells = append(b.cells, cell)
	}
	return b, nil
}

// Charge stores up to amount and returns what was absorbed.
func (b *Bank) Charge(amount float64) float64 {
	applied := 0.0
	for _, c := range b.cells {
		if amount-applied <= 0 {
			break
		}
		applied += c.Charge(amount - applied)
	}
	return applied
}

// Discharge releases up to amount and returns what was released.
func (b *Bank) Discharge(amount float64) float64 {
	applied := 0.0
	for _, c := range b.cells {
		if amount-applied <= 0 {
			break
		}
		applied += c.Discharge(amount - applied)
	}
	return applied
}

func (b *Bank) Headroom() float64 {
	total := 0.0
	for _, c := range b.cells {
		total += c.Headroom()
	}
	return total
}

func (b *Bank) Stored() float64 {
	total := 0.0
	for _, c := range b.cells {
		total += c.State.Level
	}
	return total
}

// Levels returns the current level of every unit keyed by ID.
func (b *Bank) Levels() map[string]float64 {
	out := make(map[string]float64, len(b.cells))
	for i, c := range b.cells {
		out[b.units[i].ID] = c.State.Level
	}
	return out
}

func (b *Bank) Units() []model.StorageUnit {
	return append([]model.StorageUnit(nil), b.units...)
}
