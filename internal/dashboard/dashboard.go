// Package dashboard composes the time axis, generators, simulators and
// aggregation layer into the data behind one dashboard view.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"energy-dashboard/internal/analysis"
	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/timeaxis"
)

type Options struct {
	// Now anchors the axis; it is the last timestamp of every series.
	Now         time.Time
	Granularity model.Granularity
	Comparison  model.ComparisonPeriod
	Source      generator.Source
	Params      simulation.Params
}

// Dashboard is everything one view renders.
type Dashboard struct {
	GeneratedAt   time.Time                     `json:"generatedAt" cbor:"generated_at"`
	Granularity   model.Granularity             `json:"granularity" cbor:"granularity"`
	Comparison    model.ComparisonPeriod        `json:"comparisonPeriod" cbor:"comparison_period"`
	Series        model.Series                  `json:"series" cbor:"series"`
	EnergyBalance analysis.EnergyBalance        `json:"energyBalance" cbor:"energy_balance"`
	Financial     analysis.Financial            `json:"financial" cbor:"financial"`
	Storage       analysis.StorageOptimization  `json:"storage" cbor:"storage"`
	Tokens        analysis.TokenEconomy         `json:"tokens" cbor:"tokens"`
	Decisions     []generator.NarrativeDecision `json:"decisions" cbor:"decisions"`
}

// Build runs the whole pipeline once. Every random draw comes from
// opts.Source, so a seeded source gives a reproducible dashboard.
func Build(opts Options) (Dashboard, error) {
	if opts.Source == nil {
		return Dashboard{}, errors.New("dashboard: source is nil")
	}
	if opts.Now.IsZero() {
		return Dashboard{}, errors.New("dashboard: now is zero")
	}
	// Surface a bad comparison before doing any work.
	if _, err := analysis.ProfileFor(opts.Comparison); err != nil {
		return Dashboard{}, err
	}

	axis, err := timeaxis.ForGranularity(opts.Now, opts.Granularity)
	if err != nil {
		return Dashboard{}, fmt.Errorf("build axis: %w", err)
	}
	series, err := simulation.New(opts.Params).Run(axis, opts.Source)
	if err != nil {
		return Dashboard{}, fmt.Errorf("simulate: %w", err)
	}
	summary, err := analysis.Summarize(series, opts.Comparison)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		GeneratedAt:   opts.Now,
		Granularity:   opts.Granularity,
		Comparison:    opts.Comparison,
		Series:        series,
		EnergyBalance: summary.EnergyBalance,
		Financial:     summary.Financial,
		Storage:       summary.Storage,
		Tokens:        summary.Tokens,
		Decisions:     generator.Narrative(opts.Now, generator.NarrativeCount, opts.Source),
	}, nil
}
