package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGranularity = errors.New("unknown time granularity")
	ErrUnknownComparison  = errors.New("unknown comparison period")
)

// Unit is the time-bucket size used by the time axis.
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Granularity is the dashboard-level selector for the time axis.
type Granularity string

const (
	GranularityHourly  Granularity = "hourly"
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// AxisSpec describes how many buckets of which unit a granularity covers.
type AxisSpec struct {
	Count    int
	Interval int
	Unit     Unit
}

var granularityAxes = map[Granularity]AxisSpec{
	GranularityHourly:  {Count: 24, Interval: 1, Unit: UnitHour},
	GranularityDaily:   {Count: 30, Interval: 1, Unit: UnitDay},
	GranularityWeekly:  {Count: 12, Interval: 1, Unit: UnitWeek},
	GranularityMonthly: {Count: 12, Interval: 1, Unit: UnitMonth},
}

func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := granularityAxes[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
	return g, nil
}

// Axis returns the axis shape for g. The second result is false for
// granularities that were not produced by ParseGranularity.
func (g Granularity) Axis() (AxisSpec, bool) {
	spec, ok := granularityAxes[g]
	return spec, ok
}

// ComparisonPeriod selects the scaling profile applied to summary metrics.
type ComparisonPeriod string

const (
	ComparisonNone     ComparisonPeriod = "none"
	ComparisonPrevious ComparisonPeriod = "previous"
	ComparisonBaseline ComparisonPeriod = "baseline"
)

func ParseComparisonPeriod(s string) (ComparisonPeriod, error) {
	switch p := ComparisonPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case ComparisonNone, ComparisonPrevious, ComparisonBaseline:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownComparison, s)
	}
}
