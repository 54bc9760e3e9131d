// Package api assembles the HTTP surface: dashboards, the mock decision
// producer, playback control and its WebSocket stream.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/handlers"
	"energy-dashboard/internal/api/middleware"
	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/metrics"
)

// Deps are the handlers and shared services behind the router.
type Deps struct {
	Logger     zerolog.Logger
	Metrics    *metrics.Recorder
	Dashboard  *handlers.DashboardHandler
	Backtest   *handlers.BacktestHandler
	Playback   *handlers.PlaybackHandler
	Datasets   *handlers.DatasetHandler
	Strategies *handlers.StrategyHandler
	// StaticDir, when it exists, is served as a single-page app.
	StaticDir string
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Logger))
	router.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard", d.Dashboard.GetDashboard)
		v1.POST("/backtest", d.Backtest.RunBacktest)
		v1.GET("/strategies", d.Strategies.ListStrategies)
		v1.GET("/storage-units", d.Strategies.ListStorageUnits)
		v1.GET("/datasets", d.Datasets.ListDatasets)

		pb := v1.Group("/playback")
		pb.GET("", d.Playback.GetView)
		pb.POST("/play", d.Playback.Play())
		pb.POST("/pause", d.Playback.Pause())
		pb.POST("/toggle", d.Playback.Toggle())
		pb.POST("/next", d.Playback.Next())
		pb.POST("/previous", d.Playback.Previous())
		pb.POST("/seek", d.Playback.Seek)
		pb.GET("/records", d.Playback.Records)
		pb.GET("/domain", d.Playback.Domain)
		pb.GET("/stream", d.Playback.Stream)
	}

	serveStatic(router, d.StaticDir, d.Logger)
	return router
}

func serveStatic(router *gin.Engine, dir string, log zerolog.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: models.CodeNotFound, Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Info().Str("dir", dir).Msg("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	log.Info().Str("dir", dir).Msg("serving static files")
}
