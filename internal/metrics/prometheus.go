// Package metrics exposes Prometheus instrumentation for the API server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a registry so that tests and multiple servers in one
// process do not collide on the global default.
type Recorder struct {
	registry *prometheus.Registry

	dashboards      *prometheus.CounterVec
	dashboardTime   *prometheus.HistogramVec
	datasetRecords  *prometheus.GaugeVec
	validationFails *prometheus.CounterVec
	playbackIndex   prometheus.Gauge
	playbackPlaying prometheus.Gauge
	playbackChanges *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		dashboards: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "energy_dashboard_builds_total",
				Help: "Total number of dashboards generated",
			},
			[]string{"granularity", "comparison"},
		),
		dashboardTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "energy_dashboard_build_duration_seconds",
				Help:    "Time spent generating a dashboard",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"granularity"},
		),
		datasetRecords: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "energy_dataset_records",
				Help: "Number of decision records in the loaded dataset",
			},
			[]string{"variant"},
		),
		validationFails: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "energy_dataset_validation_failures_total",
				Help: "Total number of decision datasets rejected by schema validation",
			},
			[]string{"variant"},
		),
		playbackIndex: f.NewGauge(prometheus.GaugeOpts{
			Name: "energy_playback_index",
			Help: "Current playback cursor index",
		}),
		playbackPlaying: f.NewGauge(prometheus.GaugeOpts{
			Name: "energy_playback_playing",
			Help: "1 while playback is auto-advancing, 0 otherwise",
		}),
		playbackChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "energy_playback_changes_total",
				Help: "Total number of committed playback changes",
			},
			[]string{"state"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "energy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "energy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route", "method"},
		),
	}
}

// RecordDashboard records one generated dashboard and how long it took.
func (r *Recorder) RecordDashboard(granularity, comparison string, seconds float64) {
	r.dashboards.WithLabelValues(granularity, comparison).Inc()
	r.dashboardTime.WithLabelValues(granularity).Observe(seconds)
}

func (r *Recorder) RecordDatasetLoaded(variant string, records int) {
	r.datasetRecords.WithLabelValues(variant).Set(float64(records))
}

func (r *Recorder) RecordValidationFailure(variant string) {
	r.validationFails.WithLabelValues(variant).Inc()
}

// RecordPlayback records the cursor after a committed change.
func (r *Recorder) RecordPlayback(index int, playing bool) {
	r.playbackIndex.Set(float64(index))
	state := "stopped"
	if playing {
		state = "playing"
		r.playbackPlaying.Set(1)
	} else {
		r.playbackPlaying.Set(0)
	}
	r.playbackChanges.WithLabelValues(state).Inc()
}

// RecordHTTP records a request against its route template.
func (r *Recorder) RecordHTTP(route, method, status string, seconds float64) {
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpLatency.WithLabelValues(route, method).Observe(seconds)
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
