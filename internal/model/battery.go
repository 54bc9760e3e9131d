package model

import (
	"errors"
	"math"
)

// BatteryParams defines the physical parameters of one storage unit.
// Units:
// - Capacity: kWh
// - Efficiency: 0..1, fraction of a surplus/deficit the battery absorbs/serves per step
type BatteryParams struct {
	Capacity   float64
	Efficiency float64
}

// BatteryState captures mutable state.
type BatteryState struct {
	// Level is the stored energy in kWh, always within [0, Capacity].
	Level float64
}

// Battery is a convenience wrapper bundling params + state.
type Battery struct {
	Params BatteryParams
	State  BatteryState
}

func NewBattery(params BatteryParams, initialLevel float64) (*Battery, error) {
	b := &Battery{
		Params: params,
		State:  BatteryState{Level: initialLevel},
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Battery) Validate() error {
	p := b.Params
	if p.Capacity <= 0 {
		return errors.New("Capacity must be > 0")
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	if b.State.Level < 0 || b.State.Level > p.Capacity {
		return errors.New("initial level must be within [0, Capacity]")
	}
	return nil
}

// StepResult captures what happened to the battery in one step.
type StepResult struct {
	LevelStart float64
	LevelEnd   float64

	// Pre-clamp rates derived from the energy delta.
	RequestedCharge    float64
	RequestedDischarge float64

	// Post-clamp energy actually absorbed or released.
	Charge    float64
	Discharge float64
}

// Apply runs one step of the storage fold for a signed energy delta
// (production - consumption). A positive delta charges at delta*Efficiency,
// a negative one discharges at |delta|*Efficiency, and the new level is
// clamped to [0, Capacity].
func (b *Battery) Apply(delta float64) StepResult {
	res := StepResult{LevelStart: b.State.Level}
	switch {
	case delta > 0:
		res.RequestedCharge = delta * b.Params.Efficiency
		res.Charge = b.Charge(res.RequestedCharge)
	case delta < 0:
		res.RequestedDischarge = math.Abs(delta) * b.Params.Efficiency
		res.Discharge = b.Discharge(res.RequestedDischarge)
	}
	res.LevelEnd = b.State.Level
	return res
}

// Charge stores up to amount kWh and returns what was absorbed.
func (b *Battery) Charge(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	start := b.State.Level
	b.State.Level = Clamp(start+amount, 0, b.Params.Capacity)
	return b.State.Level - start
}

// Discharge releases up to amount kWh and returns what was released.
func (b *Battery) Discharge(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	start := b.State.Level
	b.State.Level = Clamp(start-amount, 0, b.Params.Capacity)
	return start - b.State.Level
}

// Headroom is the energy the battery can still absorb.
func (b *Battery) Headroom() float64 {
	return b.Params.Capacity - b.State.Level
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
