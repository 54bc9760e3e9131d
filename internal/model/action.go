package model

import "fmt"

// Action is the verb of an AI decision for a step.
// Keep these values stable; they are written to and read from decision datasets.
type Action string

const (
	ActionBuy       Action = "BUY"
	ActionSell      Action = "SELL"
	ActionStore     Action = "STORE"
	ActionHold      Action = "HOLD"
	ActionDischarge Action = "DISCHARGE"
)

// StrictActions are the actions accepted by the strict dataset variant.
var StrictActions = []Action{ActionBuy, ActionSell, ActionStore, ActionHold}

// RelaxedActions are the actions accepted by the relaxed dataset variant.
var RelaxedActions = []Action{ActionBuy, ActionSell, ActionStore, ActionHold, ActionDischarge}

// AIDecision is the tagged decision carried by every record.
type AIDecision struct {
	Action Action  `json:"action" cbor:"action"`
	Amount float64 `json:"amount" cbor:"amount"`
}

func (d AIDecision) String() string {
	return fmt.Sprintf("%s %.2f", d.Action, d.Amount)
}

// ActionFromNetEnergy picks the natural action for a signed
// production-consumption delta when storage is not involved.
func ActionFromNetEnergy(net float64) Action {
	switch {
	case net > 0:
		return ActionSell
	case net < 0:
		return ActionBuy
	default:
		return ActionHold
	}
}
