package generator

import (
	"fmt"
	"time"
)

// Category groups narrative decisions by the subsystem they act on.
type Category string

const (
	CategoryStorage     Category = "storage"
	CategoryGrid        Category = "grid"
	CategoryProduction  Category = "production"
	CategoryConsumption Category = "consumption"
)

var categories = []Category{CategoryStorage, CategoryGrid, CategoryProduction, CategoryConsumption}

var narrativeActions = map[Category][]string{
	CategoryStorage: {
		"Increased battery charging rate",
		"Reduced battery discharge rate",
		"Optimized storage capacity utilization",
		"Scheduled preventive maintenance",
	},
	CategoryGrid: {
		"Reduced grid import during peak hours",
		"Increased grid export during high price period",
		"Balanced load distribution",
		"Negotiated better grid exchange rates",
	},
	CategoryProduction: {
		"Adjusted solar panel angles",
		"Optimized wind turbine operation",
		"Scheduled maintenance for hydro generators",
		"Reduced thermal generation during low demand",
	},
	CategoryConsumption: {
		"Shifted non-critical loads to off-peak hours",
		"Implemented demand response program",
		"Reduced HVAC consumption during peak hours",
		"Optimized industrial process scheduling",
	},
}

var narrativeReasons = map[Category][]string{
	CategoryStorage: {
		"Forecasted increased renewable production in the next 4 hours.",
		"Battery state of health analysis indicated optimal charging conditions.",
		"Predicted grid price increase during peak demand hours.",
		"Detected potential grid instability based on frequency analysis.",
	},
	CategoryGrid: {
		"Real-time pricing data indicated favorable export conditions.",
		"Detected grid congestion patterns in the local distribution network.",
		"Forecasted demand spike in the next 2 hours based on historical patterns.",
		"Identified opportunity for arbitrage between import and export prices.",
	},
	CategoryProduction: {
		"Weather forecast indicated optimal conditions for renewable generation.",
		"Detected efficiency decrease in generation equipment.",
		"Optimized for lowest carbon intensity per kWh produced.",
		"Balanced production mix to minimize operational costs.",
	},
	CategoryConsumption: {
		"Identified non-critical loads that could be shifted to off-peak hours.",
		"Detected abnormal consumption patterns indicating potential inefficiencies.",
		"Forecasted demand response event from grid operator.",
		"Optimized consumption schedule based on production and storage availability.",
	},
}

// NarrativeCount is how many narrative decisions a dashboard carries.
const NarrativeCount = 20

// Impact is the estimated effect of a narrative decision. Fields that
// do not apply to the decision's category are nil.
type Impact struct {
	EnergySavings *float64 `json:"energySavings,omitempty" cbor:"energy_savings,omitempty"`
	CostSavings   float64  `json:"costSavings" cbor:"cost_savings"`
	CO2Reduction  *float64 `json:"co2Reduction,omitempty" cbor:"co2_reduction,omitempty"`
}

// NarrativeDecision is a human-readable decision shown in the dashboard feed.
type NarrativeDecision struct {
	ID        string    `json:"id" cbor:"id"`
	Timestamp time.Time `json:"timestamp" cbor:"timestamp"`
	Category  Category  `json:"category" cbor:"category"`
	Action    string    `json:"action" cbor:"action"`
	Reasoning string    `json:"reasoning" cbor:"reasoning"`
	Impact    Impact    `json:"impact" cbor:"impact"`
}

func pick[T any](src Source, items []T) T {
	return items[int(src.Float64()*float64(len(items)))]
}

// Narrative generates n decisions stamped within the 24 hours before now.
func Narrative(now time.Time, n int, src Source) []NarrativeDecision {
	out := make([]NarrativeDecision, 0, n)
	for i := 0; i < n; i++ {
		category := pick(src, categories)
		action := pick(src, narrativeActions[category])
		ts := now.Add(-time.Duration(int(src.Float64()*24)) * time.Hour)

		var impact Impact
		if category != CategoryGrid {
			v := InRange(src, 5, 50)
			impact.EnergySavings = &v
		}
		impact.CostSavings = InRange(src, 10, 200) / 10
		if category == CategoryProduction || category == CategoryConsumption {
			v := InRange(src, 2, 30)
			impact.CO2Reduction = &v
		}

		out = append(out, NarrativeDecision{
			ID:        fmt.Sprintf("decision-%d", i),
			Timestamp: ts,
			Category:  category,
			Action:    action,
			Reasoning: pick(src, narrativeReasons[category]),
			Impact:    impact,
		})
	}
	return out
}
