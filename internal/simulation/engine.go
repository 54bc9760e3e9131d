package simulation

import (
	"fmt"
	"time"

	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
)

// Params bundles the configuration of every stage.
type Params struct {
	Storage StorageParams
	// RandomInitialLevel draws the starting battery level uniformly
	// from [200, 300] instead of using Storage.InitialLevel.
	RandomInitialLevel bool
	Prices             PriceModel
	Ledger             LedgerRates
}

func DefaultParams() Params {
	return Params{
		Storage:            DefaultStorageParams(),
		RandomInitialLevel: true,
		Prices:             DefaultPriceModel(),
		Ledger:             DefaultLedgerRates(),
	}
}

type Engine struct {
	params Params
}

func New(params Params) *Engine { return &Engine{params: params} }

// Run generates every series over the given time axis. Stages run in
// data-flow order: generators, storage and grid, then the token ledger.
func (e *Engine) Run(timestamps []time.Time, src generator.Source) (model.Series, error) {
	if src == nil {
		return model.Series{}, fmt.Errorf("source is nil")
	}
	consumption := generator.ConsumptionSeries(timestamps, src)
	production := generator.ProductionSeries(timestamps, src)

	storageParams := e.params.Storage
	if e.params.RandomInitialLevel {
		storageParams.InitialLevel = generator.InRange(src, 200, 300)
	}
	storage, err := SimulateStorage(consumption, production, storageParams)
	if err != nil {
		return model.Series{}, fmt.Errorf("simulate storage: %w", err)
	}
	grid, err := SimulateGrid(consumption, production, e.params.Prices, src)
	if err != nil {
		return model.Series{}, fmt.Errorf("simulate grid: %w", err)
	}
	tokens := RunLedger(grid, e.params.Ledger, src)

	return model.Series{
		Timestamps:  timestamps,
		Consumption: consumption,
		Production:  production,
		Storage:     storage,
		Grid:        grid,
		Tokens:      tokens,
	}, nil
}
