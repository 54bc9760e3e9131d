package strategy

import (
	"fmt"
	"strings"

	"energy-dashboard/internal/model"
)

// ScheduleParams implements a simple daily time-window strategy:
// - Surplus is stored during [ChargeStart, ChargeEnd), sold otherwise
// - Deficit is discharged during [DischargeStart, DischargeEnd), bought otherwise
//
// Times are interpreted in the location of the step timestamps.
type ScheduleParams struct {
	ChargeStart    string // "HH:MM"
	ChargeEnd      string // "HH:MM" (optional; default = DischargeStart)
	DischargeStart string // "HH:MM"
	DischargeEnd   string // "HH:MM" (optional; default = DischargeStart => zero-length)
}

type ScheduleStrategy struct {
	Params ScheduleParams

	csMins int
	ceMins int
	dsMins int
	deMins int
}

func NewScheduleStrategy(p ScheduleParams) (*ScheduleStrategy, error) {
	cs, err := parseHHMM(p.ChargeStart)
	if err != nil {
		return nil, fmt.Errorf("charge_start: %w", err)
	}
	ds, err := parseHHMM(p.DischargeStart)
	if err != nil {
		return nil, fmt.Errorf("discharge_start: %w", err)
	}
	ce := ds
	if strings.TrimSpace(p.ChargeEnd) != "" {
		if ce, err = parseHHMM(p.ChargeEnd); err != nil {
			return nil, fmt.Errorf("charge_end: %w", err)
		}
	}
	de := ds
	if strings.TrimSpace(p.DischargeEnd) != "" {
		if de, err = parseHHMM(p.DischargeEnd); err != nil {
			return nil, fmt.Errorf("discharge_end: %w", err)
		}
	}
	return &ScheduleStrategy{Params: p, csMins: cs, ceMins: ce, dsMins: ds, deMins: de}, nil
}

func (s *ScheduleStrategy) Name() string { return "schedule" }

func (s *ScheduleStrategy) Decide(ctx Context) model.Action {
	mins := ctx.Step.Hour()*60 + ctx.Step.Minute()
	net := ctx.Net()

	switch {
	case net > 0:
		if inWindow(mins, s.csMins, s.ceMins) && ctx.Storage != nil && ctx.Storage.Headroom() > 0 {
			return model.ActionStore
		}
		return model.ActionSell
	case net < 0:
		if inWindow(mins, s.dsMins, s.deMins) && ctx.Storage != nil && ctx.Storage.Stored() > 0 {
			return model.ActionDischarge
		}
		return model.ActionBuy
	default:
		return model.ActionHold
	}
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start < end, it's a normal same-day window.
// If start > end, it wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	// wrap
	return tMins >= start || tMins < end
}
