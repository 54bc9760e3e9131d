package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"energy-dashboard/internal/model"
)

// DatasetEntry describes one decision dataset file known to the catalog.
type DatasetEntry struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Variant   Variant   `json:"variant"`
	Records   int       `json:"records"`
	Units     []string  `json:"storage_units"`
	FirstStep string    `json:"first_step,omitempty"`
	LastStep  string    `json:"last_step,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Catalog is an index of decision datasets, kept as a JSON file next to them.
type Catalog struct {
	UpdatedAt time.Time      `json:"updated_at"`
	Datasets  []DatasetEntry `json:"datasets"`
}

// LoadCatalog reads a catalog file. A missing file is an empty catalog.
func LoadCatalog(filePath string) (*Catalog, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{Datasets: []DatasetEntry{}}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return &c, nil
}

func SaveCatalog(c *Catalog, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(filePath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// Upsert adds e, replacing any entry with the same ID, and keeps the
// catalog sorted by ID.
func (c *Catalog) Upsert(e DatasetEntry) {
	for i := range c.Datasets {
		if c.Datasets[i].ID == e.ID {
			c.Datasets[i] = e
			c.UpdatedAt = e.AddedAt
			return
		}
	}
	c.Datasets = append(c.Datasets, e)
	sort.Slice(c.Datasets, func(i, j int) bool { return c.Datasets[i].ID < c.Datasets[j].ID })
	c.UpdatedAt = e.AddedAt
}

func (c *Catalog) Find(id string) (DatasetEntry, bool) {
	for _, e := range c.Datasets {
		if e.ID == id {
			return e, true
		}
	}
	return DatasetEntry{}, false
}

// DefaultCatalogPath returns the catalog location, honouring DATASET_CATALOG.
func DefaultCatalogPath() string {
	if path := os.Getenv("DATASET_CATALOG"); path != "" {
		return path
	}
	return "./data/catalog.json"
}

// NewEntry summarises a loaded dataset for the catalog.
func NewEntry(id, path string, variant Variant, ds model.DecisionDataset, addedAt time.Time) DatasetEntry {
	e := DatasetEntry{
		ID:      id,
		Path:    path,
		Variant: variant,
		Records: len(ds.Data),
		Units:   []string{},
		AddedAt: addedAt,
	}
	if n := len(ds.Data); n > 0 {
		e.FirstStep = ds.Data[0].Step
		e.LastStep = ds.Data[n-1].Step
		e.Units = ds.Data[0].StorageIDs()
	}
	return e
}

// ScanResult is the outcome for one file considered by Scan.
type ScanResult struct {
	Path  string
	Entry DatasetEntry
	Err   error
}

// Scan validates every .json file directly under dir, except the paths
// in skip. Each file is tried against validators in order and recorded
// under the first variant that accepts it. Files already catalogued
// keep their ID and AddedAt. The catalog itself is not modified.
func (c *Catalog) Scan(dir string, validators []*Validator, now time.Time, skip ...string) ([]ScanResult, error) {
	if len(validators) == 0 {
		return nil, fmt.Errorf("scan: no validators")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[filepath.Clean(s)] = true
	}
	known := map[string]DatasetEntry{}
	for _, e := range c.Datasets {
		known[filepath.Clean(e.Path)] = e
	}

	var results []ScanResult
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, de.Name())
		if skipped[filepath.Clean(path)] {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			results = append(results, ScanResult{Path: path, Err: err})
			continue
		}

		res := ScanResult{Path: path}
		for _, v := range validators {
			ds, err := DecodeDecisionJSON(raw, v)
			if err != nil {
				res.Err = err
				continue
			}
			id := strings.TrimSuffix(de.Name(), ".json")
			addedAt := now
			if prev, ok := known[filepath.Clean(path)]; ok {
				id, addedAt = prev.ID, prev.AddedAt
			}
			res.Entry = NewEntry(id, path, v.Variant(), ds, addedAt)
			res.Err = nil
			break
		}
		results = append(results, res)
	}
	return results, nil
}
