package strategy

import (
	"fmt"
	"strings"
	"time"

	"energy-dashboard/internal/model"
)

// Storage is the read-only view of the storage bank a strategy sees.
type Storage interface {
	// Headroom is the energy the bank can still absorb.
	Headroom() float64
	// Stored is the energy the bank can still release.
	Stored() float64
}

type Context struct {
	Index       int
	Step        time.Time
	Consumption float64
	Production  float64
	Storage     Storage
}

// Net is production minus consumption; positive is a surplus.
func (c Context) Net() float64 { return c.Production - c.Consumption }

// Strategy labels a step with the action the producer should take.
type Strategy interface {
	Name() string
	Decide(ctx Context) model.Action
}

// New builds a strategy by name. Params come straight from config and
// are read leniently: missing or mistyped keys fall back to defaults.
func New(name string, params map[string]any) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rule":
		return RuleStrategy{}, nil
	case "schedule":
		dischargeStart := str(params, "discharge_start", "17:00")
		return NewScheduleStrategy(ScheduleParams{
			ChargeStart:    str(params, "charge_start", "10:00"),
			ChargeEnd:      str(params, "charge_end", dischargeStart),
			DischargeStart: dischargeStart,
			DischargeEnd:   str(params, "discharge_end", "22:00"),
		})
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}

// Names lists the strategies New understands.
func Names() []string { return []string{"rule", "schedule"} }

func str(m map[string]any, key string, def string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// RuleStrategy stores surplus while the bank has room and covers
// deficits from storage while it has energy. Anything left goes to or
// comes from the grid.
type RuleStrategy struct{}

func (RuleStrategy) Name() string { return "rule" }

func (RuleStrategy) Decide(ctx Context) model.Action {
	net := ctx.Net()
	switch {
	case net > 0:
		if ctx.Storage != nil && ctx.Storage.Headroom() > 0 {
			return model.ActionStore
		}
		return model.ActionSell
	case net < 0:
		if ctx.Storage != nil && ctx.Storage.Stored() > 0 {
			return model.ActionDischarge
		}
		return model.ActionBuy
	default:
		return model.ActionHold
	}
}
