package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/handlers"
	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/config"
	"energy-dashboard/internal/dashboard"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/metrics"
	"energy-dashboard/internal/playback"
)

// DashboardCacheTTL bounds how long a seeded dashboard is reused.
const DashboardCacheTTL = 5 * time.Minute

// Options carry the runtime pieces that are not part of the config file.
type Options struct {
	Clock clock.Clock
	// Engine is nil when no dataset is loaded.
	Engine      *playback.Engine
	Active      *data.DatasetEntry
	CatalogPath string
	Metrics     *metrics.Recorder
	Logger      zerolog.Logger
}

// Server is the assembled HTTP surface.
type Server struct {
	Deps    Deps
	Handler http.Handler
}

// NewServer builds every handler from cfg and wraps the router in CORS.
// The config must already be validated.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	granularity, err := cfg.Granularity()
	if err != nil {
		return nil, err
	}
	comparison, err := cfg.Comparison()
	if err != nil {
		return nil, err
	}

	bt, err := handlers.NewBacktestHandler(handlers.BacktestOptions{
		Units:   cfg.Dataset.StorageUnits,
		Variant: cfg.Variant(),
		Strategy: models.StrategyConfig{
			Name:   cfg.Backtest.Strategy.Name,
			Params: cfg.Backtest.Strategy.Params,
		},
		Rates:    cfg.BacktestRates(),
		Scale:    cfg.Backtest.EnergyScale,
		Params:   cfg.SimulationParams(),
		Location: loc,
		Clock:    opts.Clock,
		Metrics:  opts.Metrics,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	deps := Deps{
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
		Dashboard: handlers.NewDashboardHandler(handlers.DashboardOptions{
			Granularity: granularity,
			Comparison:  comparison,
			Params:      cfg.SimulationParams(),
			Location:    loc,
			Clock:       opts.Clock,
			Cache:       dashboard.NewCache(DashboardCacheTTL, opts.Clock),
			Metrics:     opts.Metrics,
			Logger:      opts.Logger,
		}),
		Backtest:   bt,
		Playback:   handlers.NewPlaybackHandler(opts.Engine, handlers.NewHub(opts.Logger), opts.Metrics, opts.Logger),
		Datasets:   handlers.NewDatasetHandler(opts.CatalogPath, opts.Active),
		Strategies: handlers.NewStrategyHandler(cfg.Dataset.StorageUnits),
		StaticDir:  cfg.Server.StaticDir,
	}

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return &Server{Deps: deps, Handler: c.Handler(NewRouter(deps))}, nil
}

// Close stops streaming and detaches from the playback engine.
func (s *Server) Close() {
	s.Deps.Playback.Close()
}
