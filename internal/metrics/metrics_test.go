package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.RecordRequest("search", "success", 10*time.Millisecond)
	m.RecordSourceRequest("note", "error", 0, time.Millisecond)
	m.RecordSourceRequest("note", "ok", 3, time.Millisecond)
	m.RecordHistoryOp("record", "success")
	m.RecordSessionCacheHit()
	m.RecordRateLimitHit("http")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceRequestsTotal.WithLabelValues("note", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryOpsTotal.WithLabelValues("record", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionCacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHitsTotal.WithLabelValues("http")))
}

func TestMetrics_InFlight(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestHandlerFor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	m.RecordRequest("search", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "studynotes_requests_total"))
}
