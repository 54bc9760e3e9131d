package backtest

import (
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/strategy"
)

// Produce scales a generated series and folds it through a fresh bank of
// empty units, returning the mock decision log.
func Produce(series model.Series, scale float64, units []model.StorageUnit, strat strategy.Strategy, rates Rates, opts Options) (*Result, error) {
	bank, err := NewBank(units, nil)
	if err != nil {
		return nil, err
	}
	return New(opts).Run(StepsFromSeries(series, scale), bank, strat, rates)
}
