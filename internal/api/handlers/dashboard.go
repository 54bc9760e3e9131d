package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/middleware"
	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/dashboard"
	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/metrics"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/simulation"
)

// DashboardOptions are the server-side defaults a request may override.
type DashboardOptions struct {
	Granularity model.Granularity
	Comparison  model.ComparisonPeriod
	Params      simulation.Params
	Location    *time.Location
	Clock       clock.Clock
	// Cache may be nil to disable caching of seeded dashboards.
	Cache   *dashboard.Cache
	Metrics *metrics.Recorder
	Logger  zerolog.Logger
}

// DashboardHandler serves generated dashboards.
type DashboardHandler struct {
	opts DashboardOptions
}

func NewDashboardHandler(opts DashboardOptions) *DashboardHandler {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &DashboardHandler{opts: opts}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var q models.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}

	granularity := h.opts.Granularity
	if q.Granularity != "" {
		g, err := model.ParseGranularity(q.Granularity)
		if err != nil {
			middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidConfig, err)
			return
		}
		granularity = g
	}
	comparison := h.opts.Comparison
	if q.Comparison != "" {
		p, err := model.ParseComparisonPeriod(q.Comparison)
		if err != nil {
			middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidConfig, err)
			return
		}
		comparison = p
	}

	seeded := q.Seed != nil
	seed := time.Now().UnixNano()
	if seeded {
		seed = *q.Seed
	}
	key := dashboard.CacheKey{Granularity: granularity, Comparison: comparison, Seed: seed}
	if seeded {
		if d, ok := h.opts.Cache.Get(key); ok {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, d)
			return
		}
	}

	start := time.Now()
	d, err := dashboard.Build(dashboard.Options{
		Now:         h.opts.Clock.Now().In(h.opts.Location),
		Granularity: granularity,
		Comparison:  comparison,
		Source:      generator.NewSource(seed),
		Params:      h.opts.Params,
	})
	if err != nil {
		h.opts.Logger.Error().Err(err).Str("key", key.String()).Msg("dashboard build failed")
		middleware.Abort(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}
	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordDashboard(string(granularity), string(comparison), time.Since(start).Seconds())
	}
	if seeded {
		h.opts.Cache.Set(key, d)
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, d)
}
