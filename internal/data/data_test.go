package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard/internal/model"
)

// record renders one dataset record, applying overrides by field name.
func record(step string, overrides map[string]any) map[string]any {
	r := map[string]any{
		"step":                      step,
		"total_consumption":         4.2,
		"total_production":          6.1,
		"energy_bought_from_grid":   0.0,
		"cost_from_grid":            0.0,
		"energy_sold_to_grid":       1.9,
		"tokens_gained_from_grid":   0.95,
		"tokens_burned_due_to_grid": 0.0,
		"storage_S1_level":          12.5,
		"storage_S2_level":          3.0,
		"token_balance":             -4.5,
		"ai_decision":               map[string]any{"action": "SELL", "amount": 1.9},
	}
	for k, v := range overrides {
		if v == nil {
			delete(r, k)
			continue
		}
		r[k] = v
	}
	return r
}

func document(t *testing.T, records ...map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"data": records})
	require.NoError(t, err)
	return raw
}

func validator(t *testing.T, v Variant) *Validator {
	t.Helper()
	val, err := NewValidator(v, model.DefaultStorageUnits())
	require.NoError(t, err)
	return val
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Relaxed ")
	require.NoError(t, err)
	assert.Equal(t, VariantRelaxed, v)

	_, err = ParseVariant("lenient")
	assert.Error(t, err)
}

func TestBuildSchema_Errors(t *testing.T) {
	_, err := BuildSchema(VariantStrict, nil)
	assert.Error(t, err)

	_, err = BuildSchema(VariantStrict, []model.StorageUnit{{ID: "S1", Capacity: 0}})
	assert.Error(t, err)

	_, err = BuildSchema(VariantStrict, []model.StorageUnit{{ID: "S1", Capacity: 1}, {ID: "S1", Capacity: 2}})
	assert.Error(t, err)

	_, err = BuildSchema("loose", model.DefaultStorageUnits())
	assert.Error(t, err)
}

func TestBuildSchema_CapsStorageLevels(t *testing.T) {
	raw, err := BuildSchema(VariantRelaxed, model.DefaultStorageUnits())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	items := doc["properties"].(map[string]any)["data"].(map[string]any)["items"].(map[string]any)
	props := items["properties"].(map[string]any)
	assert.Equal(t, 20.0, props["storage_S1_level"].(map[string]any)["maximum"])
	assert.Equal(t, 10.0, props["storage_S2_level"].(map[string]any)["maximum"])
	assert.NotContains(t, props["storage_S1_level"], "minimum")
	assert.Contains(t, items["required"], "storage_S2_level")
}

func TestDecode_ValidDataset(t *testing.T) {
	raw := document(t,
		record("2024-01-01 00:00", nil),
		record("2024-01-01 01:00", map[string]any{"token_balance": 3.5}),
	)
	ds, err := DecodeDecisionJSON(raw, validator(t, VariantStrict))
	require.NoError(t, err)
	require.Len(t, ds.Data, 2)
	assert.Equal(t, 12.5, ds.Data[0].StorageLevels["S1"])
	assert.Equal(t, model.ActionSell, ds.Data[0].AIDecision.Action)
	assert.Equal(t, 3.5, ds.Data[1].TokenBalance)
}

func TestDecode_StorageAboveCapacityFailsWholeLoad(t *testing.T) {
	raw := document(t,
		record("2024-01-01 00:00", nil),
		record("2024-01-01 01:00", map[string]any{"storage_S1_level": 25}),
		record("2024-01-01 02:00", nil),
	)
	for _, v := range []Variant{VariantStrict, VariantRelaxed} {
		t.Run(string(v), func(t *testing.T) {
			ds, err := DecodeDecisionJSON(raw, validator(t, v))
			require.ErrorIs(t, err, ErrSchemaViolation)
			assert.Empty(t, ds.Data)

			var verr *jsonschema.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), "/data/1/storage_S1_level")
		})
	}
}

func TestDecode_VariantDifferences(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
		strictOK  bool
		relaxedOK bool
	}{
		{"negative flow", map[string]any{"cost_from_grid": -1.0}, false, true},
		{"negative storage", map[string]any{"storage_S2_level": -0.5}, false, true},
		{"negative amount", map[string]any{"ai_decision": map[string]any{"action": "BUY", "amount": -2.0}}, false, true},
		{"discharge action", map[string]any{"ai_decision": map[string]any{"action": "DISCHARGE", "amount": 2.0}}, false, true},
		{"unknown action", map[string]any{"ai_decision": map[string]any{"action": "PANIC", "amount": 2.0}}, false, false},
		{"negative balance", map[string]any{"token_balance": -500.0}, true, true},
		{"bad step", map[string]any{"step": "2024-01-01T00:00"}, false, false},
		{"missing field", map[string]any{"energy_sold_to_grid": nil}, false, false},
		{"missing storage unit", map[string]any{"storage_S2_level": nil}, false, false},
		{"string number", map[string]any{"total_production": "6.1"}, false, false},
		{"extra field ignored", map[string]any{"note": "hi"}, true, true},
	}
	strict := validator(t, VariantStrict)
	relaxed := validator(t, VariantRelaxed)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := document(t, record("2024-01-01 00:00", tc.overrides))

			_, err := DecodeDecisionJSON(raw, strict)
			if tc.strictOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSchemaViolation)
			}

			_, err = DecodeDecisionJSON(raw, relaxed)
			if tc.relaxedOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSchemaViolation)
			}
		})
	}
}

func TestDecode_MalformedDocument(t *testing.T) {
	v := validator(t, VariantStrict)

	_, err := DecodeDecisionJSON([]byte(`{"data": [`), v)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	_, err = DecodeDecisionJSON([]byte(`{"records": []}`), v)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	_, err = DecodeDecisionJSON([]byte(`{"data": []}`), nil)
	assert.Error(t, err)
}

func TestWriteAndLoadDecisionJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "decisions.json")

	ds := model.DecisionDataset{Data: []model.DecisionRecord{{
		Step:             "2024-01-01 00:00",
		TotalConsumption: 2,
		TotalProduction:  3,
		EnergySoldToGrid: 1,
		StorageLevels:    map[string]float64{"S1": 20, "S2": 0},
		TokenBalance:     -1,
		AIDecision:       model.AIDecision{Action: model.ActionStore, Amount: 1},
	}}}
	require.NoError(t, WriteDecisionJSON(path, ds))

	var logs bytes.Buffer
	got, err := LoadDecisionJSON(path, validator(t, VariantStrict), zerolog.New(&logs))
	require.NoError(t, err)
	assert.Equal(t, ds, got)
	assert.Contains(t, logs.String(), `"records":1`)

	_, err = LoadDecisionJSON(filepath.Join(dir, "missing.json"), validator(t, VariantStrict), zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadDecisionJSON_LogsRejection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	raw := document(t, record("2024-01-01 00:00", map[string]any{"storage_S1_level": 25}))
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	var logs bytes.Buffer
	_, err := LoadDecisionJSON(path, validator(t, VariantStrict), zerolog.New(&logs))
	require.ErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, logs.String(), "dataset rejected")
}

func TestReadDecisionJSON_LargeDataset(t *testing.T) {
	records := make([]map[string]any, 0, 48)
	for h := 0; h < 48; h++ {
		step := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(h) * time.Hour).Format(model.StepLayout)
		records = append(records, record(step, map[string]any{"token_balance": float64(h)}))
	}
	ds, err := ReadDecisionJSON(bytes.NewReader(document(t, records...)), validator(t, VariantStrict))
	require.NoError(t, err)
	assert.Len(t, ds.Data, 48)
	assert.Equal(t, fmt.Sprintf("2024-01-02 %02d:00", 23), ds.Data[47].Step)
}

func TestCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Empty(t, c.Datasets)

	added := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ds := model.DecisionDataset{Data: []model.DecisionRecord{
		{Step: "2024-01-01 00:00", StorageLevels: map[string]float64{"S2": 1, "S1": 2}},
		{Step: "2024-01-01 01:00", StorageLevels: map[string]float64{"S2": 1, "S1": 2}},
	}}
	c.Upsert(NewEntry("mock", "mock.json", VariantStrict, ds, added))
	c.Upsert(NewEntry("empty", "empty.json", VariantRelaxed, model.DecisionDataset{}, added))
	c.Upsert(NewEntry("mock", "mock2.json", VariantStrict, ds, added.Add(time.Hour)))
	require.NoError(t, SaveCatalog(c, path))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, loaded.Datasets, 2)
	assert.Equal(t, "empty", loaded.Datasets[0].ID)

	mock, ok := loaded.Find("mock")
	require.True(t, ok)
	assert.Equal(t, "mock2.json", mock.Path)
	assert.Equal(t, 2, mock.Records)
	assert.Equal(t, []string{"S1", "S2"}, mock.Units)
	assert.Equal(t, "2024-01-01 01:00", mock.LastStep)
	assert.True(t, strings.HasPrefix(loaded.UpdatedAt.Format(time.RFC3339), "2024-05-01T01"))

	_, ok = loaded.Find("nope")
	assert.False(t, ok)
}

func TestCatalog_Scan(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, raw []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0o644))
	}
	write("strict.json", document(t, record("2024-01-01 00:00", nil)))
	write("relaxed.json", document(t, record("2024-01-01 00:00", map[string]any{
		"ai_decision": map[string]any{"action": "DISCHARGE", "amount": 2.0},
	})))
	write("broken.json", []byte(`{"data": [`))
	write("notes.txt", []byte("ignored"))
	write("catalog.json", []byte(`{"datasets": []}`))

	added := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := &Catalog{Datasets: []DatasetEntry{{
		ID:      "kept-id",
		Path:    filepath.Join(dir, "strict.json"),
		AddedAt: added,
	}}}
	now := added.Add(24 * time.Hour)
	results, err := c.Scan(dir,
		[]*Validator{validator(t, VariantStrict), validator(t, VariantRelaxed)},
		now, filepath.Join(dir, "catalog.json"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := map[string]ScanResult{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}
	assert.ErrorIs(t, byName["broken.json"].Err, ErrSchemaViolation)

	strict := byName["strict.json"]
	require.NoError(t, strict.Err)
	assert.Equal(t, "kept-id", strict.Entry.ID)
	assert.Equal(t, VariantStrict, strict.Entry.Variant)
	assert.Equal(t, added, strict.Entry.AddedAt)

	relaxed := byName["relaxed.json"]
	require.NoError(t, relaxed.Err)
	assert.Equal(t, "relaxed", relaxed.Entry.ID)
	assert.Equal(t, VariantRelaxed, relaxed.Entry.Variant)
	assert.Equal(t, now, relaxed.Entry.AddedAt)
	assert.Equal(t, 1, relaxed.Entry.Records)

	_, err = c.Scan(dir, nil, now)
	assert.Error(t, err)
}
