package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"energy-dashboard/internal/model"
)

// ErrSchemaViolation is returned when a decision dataset does not match
// the schema. The whole dataset is rejected.
var ErrSchemaViolation = errors.New("decision dataset violates schema")

// Variant selects which set of decision-record constraints is enforced.
type Variant string

const (
	// VariantStrict requires non-negative flows, storage levels in
	// [0, capacity], a non-negative amount and one of four actions.
	VariantStrict Variant = "strict"
	// VariantRelaxed drops the lower bounds and also allows DISCHARGE.
	// Storage levels stay capped by capacity.
	VariantRelaxed Variant = "relaxed"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantStrict, VariantRelaxed:
		return v, nil
	default:
		return "", fmt.Errorf("unknown dataset variant %q", s)
	}
}

// Actions returns the action values a variant accepts.
func (v Variant) Actions() []model.Action {
	if v == VariantRelaxed {
		return model.RelaxedActions
	}
	return model.StrictActions
}

// AllowsDischarge reports whether DISCHARGE is a valid action label.
func (v Variant) AllowsDischarge() bool { return v == VariantRelaxed }

const schemaURL = "decision-dataset.schema.json"

// BuildSchema renders the JSON Schema of a dataset document for one
// variant and set of storage units.
func BuildSchema(variant Variant, units []model.StorageUnit) ([]byte, error) {
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, errors.New("at least one storage unit is required")
	}
	strict := variant == VariantStrict

	number := func() map[string]any {
		n := map[string]any{"type": "number"}
		if strict {
			n["minimum"] = 0
		}
		return n
	}

	props := map[string]any{
		model.FieldStep: map[string]any{
			"type":    "string",
			"pattern": model.StepPattern,
		},
		model.FieldTokenBalance: map[string]any{"type": "number"},
	}
	required := []string{model.FieldStep}
	for _, f := range model.FlowFields {
		props[f] = number()
		required = append(required, f)
	}

	seen := map[string]bool{}
	for _, u := range units {
		if u.ID == "" {
			return nil, errors.New("storage unit id is empty")
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("duplicate storage unit %q", u.ID)
		}
		if u.Capacity <= 0 {
			return nil, fmt.Errorf("storage unit %q: capacity must be > 0", u.ID)
		}
		seen[u.ID] = true
		level := number()
		level["maximum"] = u.Capacity
		props[model.StorageField(u.ID)] = level
		required = append(required, model.StorageField(u.ID))
	}
	required = append(required, model.FieldTokenBalance, model.FieldAIDecision)

	actions := variant.Actions()
	enum := make([]string, 0, len(actions))
	for _, a := range actions {
		enum = append(enum, string(a))
	}
	props[model.FieldAIDecision] = map[string]any{
		"type":     "object",
		"required": []string{"action", "amount"},
		"properties": map[string]any{
			"action": map[string]any{"type": "string", "enum": enum},
			"amount": number(),
		},
	}

	doc := map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"title":    fmt.Sprintf("Decision dataset (%s)", variant),
		"type":     "object",
		"required": []string{"data"},
		"properties": map[string]any{
			"data": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"required":   required,
					"properties": props,
				},
			},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Validator checks decoded dataset documents against a compiled schema.
type Validator struct {
	variant Variant
	units   []model.StorageUnit
	schema  *jsonschema.Schema
}

func NewValidator(variant Variant, units []model.StorageUnit) (*Validator, error) {
	raw, err := BuildSchema(variant, units)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{
		variant: variant,
		units:   append([]model.StorageUnit(nil), units...),
		schema:  schema,
	}, nil
}

func (v *Validator) Variant() Variant { return v.variant }

func (v *Validator) Units() []model.StorageUnit {
	return append([]model.StorageUnit(nil), v.units...)
}

// Validate checks a whole dataset document. The instance must be the
// result of decoding JSON into an any.
func (v *Validator) Validate(instance any) error {
	if err := v.schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return nil
}

// ValidateBytes decodes raw JSON and validates it.
func (v *Validator) ValidateBytes(raw []byte) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrSchemaViolation, err)
	}
	return v.Validate(instance)
}
