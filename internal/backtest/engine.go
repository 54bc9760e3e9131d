package backtest

import (
	"fmt"
	"math"
	"time"

	"energy-dashboard/internal/model"
	"energy-dashboard/internal/strategy"
)

// Step is one scaled energy balance the producer folds over.
type Step struct {
	Timestamp   time.Time
	Consumption float64
	Production  float64
}

// StepsFromSeries scales a generated series down to community size.
func StepsFromSeries(s model.Series, scale float64) []Step {
	out := make([]Step, 0, s.Len())
	for i, ts := range s.Timestamps {
		out = append(out, Step{
			Timestamp:   ts,
			Consumption: s.Consumption[i].Total * scale,
			Production:  s.Production[i].Total * scale,
		})
	}
	return out
}

// Rates are the grid and token conversion rates of a mock run.
type Rates struct {
	GridPrice      float64 // tokens per kWh bought
	GainRate       float64 // tokens per kWh sold
	BurnRate       float64 // tokens burned per kWh bought
	InitialBalance float64
}

func DefaultRates() Rates {
	return Rates{GridPrice: 0.3, GainRate: 0.5, BurnRate: 0.2, InitialBalance: 100}
}

type Options struct {
	// Location formats record steps. Defaults to UTC.
	Location *time.Location
	// AllowDischarge keeps DISCHARGE labels. When false they are written
	// as HOLD carrying the discharged amount.
	AllowDischarge bool
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Engine{opts: opts}
}

// Run folds steps through the bank and token balance, labelling each
// step with the strategy's action.
func (e *Engine) Run(steps []Step, bank *Bank, strat strategy.Strategy, rates Rates) (*Result, error) {
	if bank == nil {
		return nil, fmt.Errorf("bank is nil")
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps")
	}

	ledger := make([]LedgerRow, 0, len(steps))
	records := make([]model.DecisionRecord, 0, len(steps))
	balance := rates.InitialBalance

	for idx, st := range steps {
		if st.Consumption < 0 || st.Production < 0 {
			return nil, fmt.Errorf("step %d: negative energy", idx)
		}
		action := strat.Decide(strategy.Context{
			Index:       idx,
			Step:        st.Timestamp.In(e.opts.Location),
			Consumption: st.Consumption,
			Production:  st.Production,
			Storage:     bank,
		})

		row := LedgerRow{
			Index:       idx,
			Timestamp:   st.Timestamp,
			Consumption: st.Consumption,
			Production:  st.Production,
			Action:      action,
		}
		net := st.Production - st.Consumption
		switch action {
		case model.ActionStore:
			row.Stored = bank.Charge(math.Max(net, 0))
		case model.ActionDischarge:
			row.Discharged = bank.Discharge(math.Max(-net, 0))
		}
		residual := net - row.Stored + row.Discharged
		if residual > 0 {
			row.Sold = residual
		} else if residual < 0 {
			row.Bought = -residual
		}

		switch action {
		case model.ActionStore:
			row.Amount = row.Stored
		case model.ActionDischarge:
			row.Amount = row.Discharged
			if !e.opts.AllowDischarge {
				row.Action = model.ActionHold
			}
		case model.ActionSell:
			row.Amount = row.Sold
		case model.ActionBuy:
			row.Amount = row.Bought
		}

		row.Cost = row.Bought * rates.GridPrice
		row.TokensGained = row.Sold * rates.GainRate
		row.TokensBurned = row.Bought * rates.BurnRate
		balance += row.TokensGained - row.TokensBurned - row.Cost
		row.TokenBalance = balance
		row.Levels = bank.Levels()

		ledger = append(ledger, row)
		records = append(records, row.record(e.opts.Location))
	}

	return &Result{
		Ledger:       ledger,
		Records:      records,
		FinalBalance: balance,
		FinalLevels:  bank.Levels(),
	}, nil
}

func (r LedgerRow) record(loc *time.Location) model.DecisionRecord {
	levels := make(map[string]float64, len(r.Levels))
	for id, l := range r.Levels {
		levels[id] = round2(l)
	}
	return model.DecisionRecord{
		Step:                  r.Timestamp.In(loc).Format(model.StepLayout),
		TotalConsumption:      round2(r.Consumption),
		TotalProduction:       round2(r.Production),
		EnergyBoughtFromGrid:  round2(r.Bought),
		CostFromGrid:          round2(r.Cost),
		EnergySoldToGrid:      round2(r.Sold),
		TokensGainedFromGrid:  round2(r.TokensGained),
		TokensBurnedDueToGrid: round2(r.TokensBurned),
		StorageLevels:         levels,
		TokenBalance:          round2(r.TokenBalance),
		AIDecision:            model.AIDecision{Action: r.Action, Amount: round2(r.Amount)},
	}
}

// round2 matches the two-decimal precision of recorded datasets.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
