package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/middleware"
	"energy-dashboard/internal/api/models"
	"energy-dashboard/internal/backtest"
	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/data"
	"energy-dashboard/internal/generator"
	"energy-dashboard/internal/metrics"
	"energy-dashboard/internal/model"
	"energy-dashboard/internal/simulation"
	"energy-dashboard/internal/strategy"
	"energy-dashboard/internal/timeaxis"
)

// BacktestOptions are the fixed inputs of the mock decision producer.
type BacktestOptions struct {
	Units    []model.StorageUnit
	Variant  data.Variant
	Strategy models.StrategyConfig
	Rates    backtest.Rates
	Scale    float64
	Params   simulation.Params
	Location *time.Location
	Clock    clock.Clock
	Metrics  *metrics.Recorder
	Logger   zerolog.Logger
}

// BacktestHandler produces mock decision datasets on demand.
type BacktestHandler struct {
	opts       BacktestOptions
	validators map[data.Variant]*data.Validator
}

func NewBacktestHandler(opts BacktestOptions) (*BacktestHandler, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Variant == "" {
		opts.Variant = data.VariantStrict
	}
	h := &BacktestHandler{opts: opts, validators: map[data.Variant]*data.Validator{}}
	for _, v := range []data.Variant{data.VariantStrict, data.VariantRelaxed} {
		val, err := data.NewValidator(v, opts.Units)
		if err != nil {
			return nil, fmt.Errorf("%s validator: %w", v, err)
		}
		h.validators[v] = val
	}
	return h, nil
}

// RunBacktest handles POST /api/v1/backtest. The response is a dataset
// document that has passed validation under the requested variant.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}

	granularity := model.GranularityHourly
	if req.Granularity != "" {
		g, err := model.ParseGranularity(req.Granularity)
		if err != nil {
			middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidConfig, err)
			return
		}
		granularity = g
	}
	variant := h.opts.Variant
	if req.Variant != "" {
		variant = data.Variant(req.Variant)
	}
	stratCfg := h.opts.Strategy
	if req.Strategy.Name != "" {
		stratCfg = req.Strategy
	}
	strat, err := strategy.New(stratCfg.Name, stratCfg.Params)
	if err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidConfig, err)
		return
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	axis, err := timeaxis.ForGranularity(h.opts.Clock.Now().In(h.opts.Location), granularity)
	if err != nil {
		middleware.Abort(c, http.StatusBadRequest, models.CodeInvalidConfig, err)
		return
	}
	series, err := simulation.New(h.opts.Params).Run(axis, generator.NewSource(seed))
	if err != nil {
		middleware.Abort(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}
	result, err := backtest.Produce(series, h.opts.Scale, h.opts.Units, strat, h.opts.Rates, backtest.Options{
		Location:       h.opts.Location,
		AllowDischarge: variant.AllowsDischarge(),
	})
	if err != nil {
		middleware.Abort(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}

	var buf bytes.Buffer
	if err := data.EncodeDecisionJSON(&buf, result.Dataset()); err != nil {
		middleware.Abort(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}
	if err := h.validators[variant].ValidateBytes(buf.Bytes()); err != nil {
		if h.opts.Metrics != nil {
			h.opts.Metrics.RecordValidationFailure(string(variant))
		}
		h.opts.Logger.Error().Err(err).Str("variant", string(variant)).Msg("mock dataset rejected")
		code := models.CodeInternal
		if errors.Is(err, data.ErrSchemaViolation) {
			code = models.CodeSchema
		}
		middleware.Abort(c, http.StatusInternalServerError, code, err)
		return
	}

	h.opts.Logger.Info().
		Str("strategy", strat.Name()).
		Str("variant", string(variant)).
		Int("records", len(result.Records)).
		Float64("final_balance", result.FinalBalance).
		Msg("mock dataset produced")
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}
