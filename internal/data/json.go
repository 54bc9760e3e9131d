package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"energy-dashboard/internal/model"
)

// LoadDecisionJSON reads, validates and decodes a decision dataset file.
// Validation covers the whole document before any record is decoded, so
// callers never see a partially loaded dataset.
func LoadDecisionJSON(path string, v *Validator, log zerolog.Logger) (model.DecisionDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.DecisionDataset{}, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := DecodeDecisionJSON(raw, v)
	if err != nil {
		log.Error().Err(err).Str("path", path).Str("variant", string(v.Variant())).Msg("dataset rejected")
		return model.DecisionDataset{}, err
	}
	log.Info().Str("path", path).Int("records", len(ds.Data)).Str("variant", string(v.Variant())).Msg("dataset loaded")
	return ds, nil
}

// DecodeDecisionJSON validates raw against v and decodes it.
func DecodeDecisionJSON(raw []byte, v *Validator) (model.DecisionDataset, error) {
	if v == nil {
		return model.DecisionDataset{}, fmt.Errorf("validator is nil")
	}
	if err := v.ValidateBytes(raw); err != nil {
		return model.DecisionDataset{}, err
	}
	var ds model.DecisionDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return model.DecisionDataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// ReadDecisionJSON is DecodeDecisionJSON over a reader.
func ReadDecisionJSON(r io.Reader, v *Validator) (model.DecisionDataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.DecisionDataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return DecodeDecisionJSON(raw, v)
}

// EncodeDecisionJSON writes ds as an indented dataset document.
func EncodeDecisionJSON(w io.Writer, ds model.DecisionDataset) error {
	if ds.Data == nil {
		ds.Data = []model.DecisionRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

func WriteDecisionJSON(path string, ds model.DecisionDataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDecisionJSON(f, ds); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return f.Close()
}
