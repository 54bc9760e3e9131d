package analysis

import (
	"math"
	"sort"
	"time"

	"energy-dashboard/internal/model"
)

const (
	eveningPeakStart = 17
	eveningPeakEnd   = 21
	peakBasePrice    = 0.25
	offPeakBasePrice = 0.15

	saleDiscount       = 0.8
	tokenCostPerKWh    = 0.05
	tokenRevenuePerKWh = 0.08
)

// FinancialBasePrice is the time-of-day tariff used for financial
// impact: higher in the evening peak [17,21]. It is independent of the
// jittered grid price on GridSample.
func FinancialBasePrice(hour int) float64 {
	if hour >= eveningPeakStart && hour <= eveningPeakEnd {
		return peakBasePrice
	}
	return offPeakBasePrice
}

// FinancialPoint is the financial impact of one step. Costs are negative.
type FinancialPoint struct {
	Timestamp    time.Time `json:"timestamp" cbor:"timestamp"`
	CostBought   float64   `json:"costBought" cbor:"cost_bought"`
	RevenueSold  float64   `json:"revenueSold" cbor:"revenue_sold"`
	TokenCosts   float64   `json:"tokenCosts" cbor:"token_costs"`
	TokenRevenue float64   `json:"tokenRevenue" cbor:"token_revenue"`
	NetSavings   float64   `json:"netSavings" cbor:"net_savings"`
	AIImpact     float64   `json:"aiImpact" cbor:"ai_impact"`
}

// PriceSummary describes the distribution of grid prices over a series.
type PriceSummary struct {
	Count  int     `json:"count" cbor:"count"`
	Min    float64 `json:"min" cbor:"min"`
	Max    float64 `json:"max" cbor:"max"`
	Mean   float64 `json:"mean" cbor:"mean"`
	P05    float64 `json:"p05" cbor:"p05"`
	P95    float64 `json:"p95" cbor:"p95"`
	Spread float64 `json:"spreadP95P05" cbor:"spread_p95_p05"`
}

type Financial struct {
	Timeseries []FinancialPoint `json:"timeseries" cbor:"timeseries"`
	GridPrices PriceSummary     `json:"gridPrices" cbor:"grid_prices"`
}

func ComputeFinancial(grid []model.GridSample, profile Profile) Financial {
	points := make([]FinancialPoint, 0, len(grid))
	for _, g := range grid {
		base := FinancialBasePrice(g.Timestamp.Hour())
		p := FinancialPoint{
			Timestamp:    g.Timestamp,
			CostBought:   -g.Import * base,
			RevenueSold:  g.Export * base * saleDiscount,
			TokenCosts:   -g.Import * tokenCostPerKWh,
			TokenRevenue: g.Export * tokenRevenuePerKWh,
		}
		p.NetSavings = p.RevenueSold + p.TokenRevenue + p.CostBought + p.TokenCosts
		p.AIImpact = math.Abs(p.NetSavings) * profile.AIImpactMultiplier
		points = append(points, p)
	}
	return Financial{Timeseries: points, GridPrices: SummarizePrices(grid)}
}

func SummarizePrices(grid []model.GridSample) PriceSummary {
	s := PriceSummary{}
	if len(grid) == 0 {
		return s
	}
	s.Count = len(grid)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(grid))
	for _, g := range grid {
		v := g.Price
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.Spread = s.P95 - s.P05
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
