package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()
	r.RecordDashboard("hourly", "none", 0.01)
	r.RecordDashboard("hourly", "none", 0.02)
	r.RecordValidationFailure("strict")
	r.RecordDatasetLoaded("strict", 24)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.dashboards.WithLabelValues("hourly", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validationFails.WithLabelValues("strict")))
	assert.Equal(t, 24.0, testutil.ToFloat64(r.datasetRecords.WithLabelValues("strict")))
}

func TestRecorder_Playback(t *testing.T) {
	r := New()
	r.RecordPlayback(3, true)
	assert.Equal(t, 3.0, testutil.ToFloat64(r.playbackIndex))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.playbackPlaying))

	r.RecordPlayback(4, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.playbackPlaying))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.playbackChanges.WithLabelValues("stopped")))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordHTTP("/health", "GET", "200", 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.httpRequests.WithLabelValues("/health", "GET", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.httpRequests.WithLabelValues("/health", "GET", "200")))
}

func TestHandler(t *testing.T) {
	r := New()
	r.RecordDashboard("daily", "baseline", 0.1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `energy_dashboard_builds_total{comparison="baseline",granularity="daily"} 1`)
}
