package backtest

import (
	"time"

	"energy-dashboard/internal/model"
)

// LedgerRow is one row of per-step output before rounding.
// This is the primary artifact for "what happened" in a mock run;
// Records carries the same steps in decision-dataset form.
type LedgerRow struct {
	Index     int
	Timestamp time.Time

	Consumption float64
	Production  float64

	Action model.Action
	Amount float64

	Stored     float64
	Discharged float64
	Bought     float64
	Sold       float64

	Cost         float64
	TokensGained float64
	TokensBurned float64
	TokenBalance float64

	Levels map[string]float64
}

type Result struct {
	Ledger       []LedgerRow
	Records      []model.DecisionRecord
	FinalBalance float64
	FinalLevels  map[string]float64
}

// Dataset wraps the records as a dataset document.
func (r *Result) Dataset() model.DecisionDataset {
	return model.DecisionDataset{Data: r.Records}
}
