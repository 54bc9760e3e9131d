package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"energy-dashboard/internal/config"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/logger"
	"energy-dashboard/internal/playback"
	"energy-dashboard/internal/tui"
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
	fs := pflag.NewFlagSet("explorer", pflag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML or TOML config")
	dataPath := fs.String("data", "", "Decision dataset JSON (default from config)")
	variant := fs.String("variant", "", "strict or relaxed (default from config)")
	logOutput := fs.String("log-output", "", "Write JSON log records to this file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if args := fs.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
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
	if *variant != "" {
		v, err := data.ParseVariant(*variant)
		if err != nil {
			return err
		}
		cfg.Dataset.Variant = string(v)
	}
	path := *dataPath
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path == "" {
		return errors.New("--data is required")
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logCfg := cfg.Log
	logCfg.Level = "disabled"
	if *logOutput != "" {
		logCfg = logger.Config{Level: cfg.Log.Level, Format: "json", Output: *logOutput}
	}
	log, closer, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	v, err := cfg.Validator()
	if err != nil {
		return err
	}
	ds, err := data.LoadDecisionJSON(path, v, log)
	if err != nil {
		return fmt.Errorf("cannot load decisions from %s: %w", path, err)
	}

	opts := cfg.PlaybackOptions()
	opts.Logger = log
	engine, err := playback.New(ds.Data, opts)
	if err != nil {
		return err
	}
	defer engine.Close()

	model, unsubscribe := tui.NewModel(engine)
	defer unsubscribe()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
