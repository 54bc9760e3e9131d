package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"energy-dashboard/internal/config"
	"energy-dashboard/internal/data"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("update-catalog", pflag.ContinueOnError)
	dir := fs.String("dir", "./data", "Directory holding decision dataset files")
	outputPath := fs.String("output", "", "Catalog path (default: DATASET_CATALOG or ./data/catalog.json)")
	cfgPath := fs.String("config", "", "Config providing the storage units to validate against")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return err
	}

	if *outputPath == "" {
		*outputPath = data.DefaultCatalogPath()
	}

	validators := make([]*data.Validator, 0, 2)
	for _, v := range []data.Variant{data.VariantStrict, data.VariantRelaxed} {
		val, err := data.NewValidator(v, cfg.Dataset.StorageUnits)
		if err != nil {
			return err
		}
		validators = append(validators, val)
	}

	catalog, err := data.LoadCatalog(*outputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d existing datasets from %s\n", len(catalog.Datasets), *outputPath)
	fmt.Printf("Scanning %s...\n", *dir)

	results, err := catalog.Scan(*dir, validators, time.Now().UTC(), *outputPath)
	if err != nil {
		return err
	}

	ok := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  ⚠️  Skipped %s: %v\n", filepath.Base(r.Path), r.Err)
			continue
		}
		catalog.Upsert(r.Entry)
		ok++
		fmt.Printf("  ✓ %s (%s, %d records)\n", r.Entry.ID, r.Entry.Variant, r.Entry.Records)
	}
	fmt.Printf("Catalogued %d/%d files\n", ok, len(results))

	if err := data.SaveCatalog(catalog, *outputPath); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	fmt.Printf("Saved %d datasets to %s\n", len(catalog.Datasets), *outputPath)
	return nil
}
