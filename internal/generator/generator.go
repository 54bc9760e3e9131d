// Package generator produces synthetic consumption and production
// samples. Every function is pure in (timestamp, Source).
package generator

import (
	"math"
	"time"

	"energy-dashboard/internal/model"
)

// Range is an inclusive integer draw range.
type Range struct {
	Min, Max int
}

var (
	residentialRange = Range{20, 40}
	commercialRange  = Range{40, 80}
	industrialRange  = Range{60, 120}

	solarRange   = Range{20, 60}
	windRange    = Range{15, 45}
	hydroRange   = Range{30, 50}
	thermalRange = Range{40, 70}
)

const (
	peakMultiplier    = 1.5
	offPeakMultiplier = 0.7
	peakStartHour     = 8
	peakEndHour       = 20

	solarStartHour = 8
	solarEndHour   = 16
	solarNoon      = 12
	solarNight     = 0.1
)

func draw(src Source, r Range) float64 { return InRange(src, r.Min, r.Max) }

// DemandMultiplier is 1.5 for hours in [8,20] and 0.7 otherwise.
func DemandMultiplier(hour int) float64 {
	if hour >= peakStartHour && hour <= peakEndHour {
		return peakMultiplier
	}
	return offPeakMultiplier
}

// SolarMultiplier is a triangular bell peaking at 2.0 at noon, falling
// to 1.0 at hours 8 and 16, and 0.1 outside [8,16].
func SolarMultiplier(hour int) float64 {
	if hour >= solarStartHour && hour <= solarEndHour {
		return (1 - math.Abs(float64(hour-solarNoon))/8) * 2
	}
	return solarNight
}

// Consumption generates one consumption sample. The hour of day is read
// in the timestamp's location.
func Consumption(ts time.Time, src Source) model.ConsumptionSample {
	m := DemandMultiplier(ts.Hour())
	s := model.ConsumptionSample{
		Timestamp:   ts,
		Residential: draw(src, residentialRange) * m,
		Commercial:  draw(src, commercialRange) * m,
		Industrial:  draw(src, industrialRange) * m,
	}
	s.Total = s.Residential + s.Commercial + s.Industrial
	return s
}

// Production generates one production sample.
func Production(ts time.Time, src Source) model.ProductionSample {
	s := model.ProductionSample{
		Timestamp: ts,
		Solar:     draw(src, solarRange) * SolarMultiplier(ts.Hour()),
		Wind:      draw(src, windRange),
		Hydro:     draw(src, hydroRange),
		Thermal:   draw(src, thermalRange),
	}
	s.Total = s.Solar + s.Wind + s.Hydro + s.Thermal
	return s
}

func ConsumptionSeries(timestamps []time.Time, src Source) []model.ConsumptionSample {
	out := make([]model.ConsumptionSample, 0, len(timestamps))
	for _, ts := range timestamps {
		out = append(out, Consumption(ts, src))
	}
	return out
}

func ProductionSeries(timestamps []time.Time, src Source) []model.ProductionSample {
	out := make([]model.ProductionSample, 0, len(timestamps))
	for _, ts := range timestamps {
		out = append(out, Production(ts, src))
	}
	return out
}
