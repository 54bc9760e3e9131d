// Package timeaxis builds the ordered timestamp sequences every
// generated series is indexed by.
package timeaxis

import (
	"errors"
	"fmt"
	"time"

	"energy-dashboard/internal/model"
)

var ErrInvalidGranularity = errors.New("invalid granularity")

// Build returns count timestamps ending at now, spaced interval units
// apart, oldest first.
func Build(now time.Time, count, interval int, unit model.Unit) ([]time.Time, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be >= 0, got %d", count)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be > 0, got %d", interval)
	}
	step, err := stepFunc(unit)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, count)
	for i := count - 1; i >= 0; i-- {
		out = append(out, step(now, i*interval))
	}
	return out, nil
}

// ForGranularity builds the axis for a dashboard granularity selector.
func ForGranularity(now time.Time, g model.Granularity) ([]time.Time, error) {
	spec, ok := g.Axis()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}
	return Build(now, spec.Count, spec.Interval, spec.Unit)
}

// stepFunc returns a function moving t back n units.
func stepFunc(unit model.Unit) (func(t time.Time, n int) time.Time, error) {
	switch unit {
	case model.UnitHour:
		return func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Hour) }, nil
	case model.UnitDay:
		return func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -n) }, nil
	case model.UnitWeek:
		return func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -7*n) }, nil
	case model.UnitMonth:
		return func(t time.Time, n int) time.Time { return t.AddDate(0, -n, 0) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, unit)
	}
}
