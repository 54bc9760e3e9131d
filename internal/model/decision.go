package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// StepLayout is the timestamp layout of DecisionRecord.Step.
const StepLayout = "2006-01-02 15:04"

// StepPattern is the regular expression every Step must match.
const StepPattern = `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`

// JSON field names of a decision record.
const (
	FieldStep                  = "step"
	FieldTotalConsumption      = "total_consumption"
	FieldTotalProduction       = "total_production"
	FieldEnergyBoughtFromGrid  = "energy_bought_from_grid"
	FieldCostFromGrid          = "cost_from_grid"
	FieldEnergySoldToGrid      = "energy_sold_to_grid"
	FieldTokensGainedFromGrid  = "tokens_gained_from_grid"
	FieldTokensBurnedDueToGrid = "tokens_burned_due_to_grid"
	FieldTokenBalance          = "token_balance"
	FieldAIDecision            = "ai_decision"
)

// FlowFields are the numeric fields that the strict variant requires to be non-negative.
var FlowFields = []string{
	FieldTotalConsumption,
	FieldTotalProduction,
	FieldEnergyBoughtFromGrid,
	FieldCostFromGrid,
	FieldEnergySoldToGrid,
	FieldTokensGainedFromGrid,
	FieldTokensBurnedDueToGrid,
}

var storageFieldRe = regexp.MustCompile(`^storage_(.+)_level$`)

// StorageField returns the record field name holding the level of unit id.
func StorageField(id string) string {
	return "storage_" + id + "_level"
}

// StorageUnit declares a named storage unit and its capacity.
type StorageUnit struct {
	ID       string  `yaml:"id" toml:"id" json:"id" validate:"required"`
	Name     string  `yaml:"name" toml:"name" json:"name"`
	Capacity float64 `yaml:"capacity" toml:"capacity" json:"capacity" validate:"gt=0"`
}

// DefaultStorageUnits mirrors the two-unit community setup the
// decision datasets were recorded against.
func DefaultStorageUnits() []StorageUnit {
	return []StorageUnit{
		{ID: "S1", Name: "Storage S1", Capacity: 20},
		{ID: "S2", Name: "Storage S2", Capacity: 10},
	}
}

// DecisionRecord is one step of an agent's decision log.
type DecisionRecord struct {
	Step                  string
	TotalConsumption      float64
	TotalProduction       float64
	EnergyBoughtFromGrid  float64
	CostFromGrid          float64
	EnergySoldToGrid      float64
	TokensGainedFromGrid  float64
	TokensBurnedDueToGrid float64
	// StorageLevels is keyed by storage unit ID.
	StorageLevels map[string]float64
	TokenBalance  float64
	AIDecision    AIDecision
}

// Time parses Step in the given location.
func (r DecisionRecord) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(StepLayout, r.Step, loc)
}

// NumericFields returns every top-level numeric field keyed by its JSON name.
// The nested ai_decision amount is not a top-level field and is excluded.
func (r DecisionRecord) NumericFields() map[string]float64 {
	out := map[string]float64{
		FieldTotalConsumption:      r.TotalConsumption,
		FieldTotalProduction:       r.TotalProduction,
		FieldEnergyBoughtFromGrid:  r.EnergyBoughtFromGrid,
		FieldCostFromGrid:          r.CostFromGrid,
		FieldEnergySoldToGrid:      r.EnergySoldToGrid,
		FieldTokensGainedFromGrid:  r.TokensGainedFromGrid,
		FieldTokensBurnedDueToGrid: r.TokensBurnedDueToGrid,
		FieldTokenBalance:          r.TokenBalance,
	}
	for id, level := range r.StorageLevels {
		out[StorageField(id)] = level
	}
	return out
}

// StorageIDs returns the storage unit IDs present on the record, sorted.
func (r DecisionRecord) StorageIDs() []string {
	ids := make([]string, 0, len(r.StorageLevels))
	for id := range r.StorageLevels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r DecisionRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 11+len(r.StorageLevels))
	m[FieldStep] = r.Step
	for k, v := range r.NumericFields() {
		m[k] = v
	}
	m[FieldAIDecision] = r.AIDecision
	return json.Marshal(m)
}

func (r *DecisionRecord) UnmarshalJSON(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	out := DecisionRecord{StorageLevels: map[string]float64{}}
	targets := map[string]*float64{
		FieldTotalConsumption:      &out.TotalConsumption,
		FieldTotalProduction:       &out.TotalProduction,
		FieldEnergyBoughtFromGrid:  &out.EnergyBoughtFromGrid,
		FieldCostFromGrid:          &out.CostFromGrid,
		FieldEnergySoldToGrid:      &out.EnergySoldToGrid,
		FieldTokensGainedFromGrid:  &out.TokensGainedFromGrid,
		FieldTokensBurnedDueToGrid: &out.TokensBurnedDueToGrid,
		FieldTokenBalance:          &out.TokenBalance,
	}
	for key, value := range fields {
		switch {
		case key == FieldStep:
			if err := json.Unmarshal(value, &out.Step); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		case key == FieldAIDecision:
			if err := json.Unmarshal(value, &out.AIDecision); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		case targets[key] != nil:
			if err := json.Unmarshal(value, targets[key]); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		default:
			if m := storageFieldRe.FindStringSubmatch(key); m != nil {
				var level float64
				if err := json.Unmarshal(value, &level); err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
				out.StorageLevels[m[1]] = level
			}
		}
	}
	*r = out
	return nil
}

// DecisionDataset is the on-disk shape of a decision log.
//
// Example:
//
//	{
//	  "data": [ {"step": "2024-01-01 00:00", ...}, ... ]
//	}
type DecisionDataset struct {
	Data []DecisionRecord `json:"data"`
}
