package simulation

import (
	"math"
	"time"

	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
)

// PriceModel is a fixed base price per kWh with bounded uniform jitter
// of ±Spread/2.
type PriceModel struct {
	Base   float64
	Spread float64
}

func DefaultPriceModel() PriceModel {
	return PriceModel{Base: 0.12, Spread: 0.05}
}

// Price draws one price, rounded to three decimals.
func (p PriceModel) Price(src generator.Source) float64 {
	return math.Round(generator.Jitter(src, p.Base, p.Spread)*1000) / 1000
}

// GridStep derives the grid exchange for one step. Import and export
// are mutually exclusive and NetExchange = Export - Import.
func GridStep(ts time.Time, consumption, production float64, price float64) model.GridSample {
	delta := production - consumption
	s := model.GridSample{
		Timestamp: ts,
		Import:    math.Max(0, -delta),
		Export:    math.Max(0, delta),
		Price:     price,
	}
	s.NetExchange = s.Export - s.Import
	return s
}

func SimulateGrid(consumption []model.ConsumptionSample, production []model.ProductionSample, prices PriceModel, src generator.Source) ([]model.GridSample, error) {
	if err := checkLengths(consumption, production); err != nil {
		return nil, err
	}
	out := make([]model.GridSample, 0, len(consumption))
	for i := range consumption {
		out = append(out, GridStep(consumption[i].Timestamp, consumption[i].Total, production[i].Total, prices.Price(src)))
	}
	return out, nil
}
