package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"energy-dashboard/internal/api"
	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/config"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/logger"
	"energy-dashboard/internal/metrics"
	"energy-dashboard/internal/playback"
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
	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML or TOML config")
	dataPath := fs.String("data", "", "Decision dataset to serve for playback (overrides config and DATASET_PATH)")
	catalogPath := fs.String("catalog", "", "Dataset catalog path (default: DATASET_CATALOG or ./data/catalog.json)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.LoadUnchecked(*cfgPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return err
	}
	// Environment overrides apply before validation.
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	if wd, err := os.Getwd(); err == nil {
		log.Info().Str("dir", wd).Msg("working directory")
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rec := metrics.New()
	clk := clock.Real()

	engine, active, err := loadPlayback(cfg, clk, rec, log)
	if err != nil {
		return err
	}
	if engine != nil {
		defer engine.Close()
	}

	srv, err := api.NewServer(cfg, api.Options{
		Clock:       clk,
		Engine:      engine,
		Active:      active,
		CatalogPath: *catalogPath,
		Metrics:     rec,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// loadPlayback loads the configured dataset, if any, into a playback
// engine. Without a dataset the server still serves dashboards.
func loadPlayback(cfg *config.Config, clk clock.Clock, rec *metrics.Recorder, log zerolog.Logger) (*playback.Engine, *data.DatasetEntry, error) {
	if cfg.Dataset.Path == "" {
		log.Info().Msg("no decision dataset configured, playback disabled")
		return nil, nil, nil
	}
	v, err := cfg.Validator()
	if err != nil {
		return nil, nil, err
	}
	ds, err := data.LoadDecisionJSON(cfg.Dataset.Path, v, log)
	if err != nil {
		rec.RecordValidationFailure(string(cfg.Variant()))
		return nil, nil, err
	}
	rec.RecordDatasetLoaded(string(cfg.Variant()), len(ds.Data))

	opts := cfg.PlaybackOptions()
	opts.Clock = clk
	opts.Logger = log
	engine, err := playback.New(ds.Data, opts)
	if err != nil {
		return nil, nil, err
	}

	base := filepath.Base(cfg.Dataset.Path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	entry := data.NewEntry(id, cfg.Dataset.Path, cfg.Variant(), ds, time.Now().UTC())
	return engine, &entry, nil
}
