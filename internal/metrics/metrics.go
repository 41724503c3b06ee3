package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SourceRequestsTotal   *prometheus.CounterVec
	SourceRequestDuration *prometheus.HistogramVec
	SourceCandidates      *prometheus.HistogramVec

	HistoryOpsTotal *prometheus.CounterVec

	SessionCacheHitsTotal   prometheus.Counter
	SessionCacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry - для тестов, чтобы не было duplicate registration в default registry
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studynotes_requests_total",
				Help: "Total number of requests processed",
			},
			[]string{"type", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studynotes_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"type"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "studynotes_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		SourceRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studynotes_search_source_requests_total",
				Help: "Total number of search source invocations",
			},
			[]string{"source", "status"},
		),
		SourceRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studynotes_search_source_duration_seconds",
				Help:    "Search source duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"source"},
		),
		SourceCandidates: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studynotes_search_source_candidates",
				Help:    "Number of scored candidates returned by a search source",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"source"},
		),

		HistoryOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studynotes_history_operations_total",
				Help: "Total number of search history operations",
			},
			[]string{"op", "status"},
		),

		SessionCacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "studynotes_session_cache_hits_total",
				Help: "Total number of session cache hits",
			},
		),
		SessionCacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "studynotes_session_cache_misses_total",
				Help: "Total number of session cache misses",
			},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studynotes_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"frontend"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor - /metrics для конкретного registry
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(reqType, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
	m.RequestDuration.WithLabelValues(reqType).Observe(duration.Seconds())
}

func (m *Metrics) RecordSourceRequest(source, status string, candidates int, duration time.Duration) {
	m.SourceRequestsTotal.WithLabelValues(source, status).Inc()
	m.SourceRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.SourceCandidates.WithLabelValues(source).Observe(float64(candidates))
}

func (m *Metrics) RecordHistoryOp(op, status string) {
	m.HistoryOpsTotal.WithLabelValues(op, status).Inc()
}

func (m *Metrics) RecordSessionCacheHit() {
	m.SessionCacheHitsTotal.Inc()
}

func (m *Metrics) RecordSessionCacheMiss() {
	m.SessionCacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(frontend string) {
	m.RateLimitHitsTotal.WithLabelValues(frontend).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
