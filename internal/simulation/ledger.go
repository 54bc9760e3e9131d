package simulation

import (
	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
)

// LedgerRates configures the token ledger.
// EarnRate applies to exported energy; BurnRate and GridBurnRate both
// apply to imported energy and model separate token-cost and grid-tax burns.
type LedgerRates struct {
	InitialBalance float64
	EarnRate       float64
	BurnRate       float64
	GridBurnRate   float64

	// Token price is reported per step as BaseTokenPrice ± TokenPriceSpread/2.
	BaseTokenPrice   float64
	TokenPriceSpread float64
}

func DefaultLedgerRates() LedgerRates {
	return LedgerRates{
		InitialBalance:   5000,
		EarnRate:         2.5,
		BurnRate:         1.2,
		GridBurnRate:     0.8,
		BaseTokenPrice:   0.12,
		TokenPriceSpread: 0.02,
	}
}

// Ledger holds the running token balance between steps. The balance is
// never clamped and may go negative.
type Ledger struct {
	rates   LedgerRates
	balance float64
}

func NewLedger(rates LedgerRates) *Ledger {
	return &Ledger{rates: rates, balance: rates.InitialBalance}
}

func (l *Ledger) Balance() float64 { return l.balance }

// Step books one grid sample and returns the resulting ledger row.
func (l *Ledger) Step(g model.GridSample, src generator.Source) model.TokenSample {
	s := model.TokenSample{
		Timestamp:        g.Timestamp,
		TokensEarned:     g.Export * l.rates.EarnRate,
		TokensBurned:     g.Import * l.rates.BurnRate,
		GridTokensBurned: g.Import * l.rates.GridBurnRate,
		TokenPrice:       generator.Jitter(src, l.rates.BaseTokenPrice, l.rates.TokenPriceSpread),
	}
	l.balance = l.balance + s.TokensEarned - s.TokensBurned - s.GridTokensBurned
	s.TokenBalance = l.balance
	return s
}

// RunLedger folds a grid series into a token series.
func RunLedger(grid []model.GridSample, rates LedgerRates, src generator.Source) []model.TokenSample {
	l := NewLedger(rates)
	out := make([]model.TokenSample, 0, len(grid))
	for _, g := range grid {
		out = append(out, l.Step(g, src))
	}
	return out
}
