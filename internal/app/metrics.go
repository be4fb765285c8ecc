package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers the counters and histograms the HTTP middleware and the
// session service report to, and exposes them on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	sessionIssued    prometheus.Counter
	sessionRefreshed prometheus.Counter
	sessionExpired   prometheus.Counter
	sessionSwept     prometheus.Counter
}

// NewMetrics builds a Metrics instance with its own registry, so a test
// process can construct more than one App without colliding on the default
// global registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lobbyd_http_requests_total",
			Help: "Total HTTP requests handled, by method, route and status class.",
		}, []string{"method", "route", "status_class"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lobbyd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessionIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "lobbyd_session_issued_total",
			Help: "Sessions created from a verified ad-hoc credential.",
		}),
		sessionRefreshed: factory.NewCounter(prometheus.CounterOpts{
			Name: "lobbyd_session_refreshed_total",
			Help: "Sessions rotated to a fresh keypair inside the refresh window.",
		}),
		sessionExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "lobbyd_session_expired_total",
			Help: "Sessions explicitly expired via DELETE /session.",
		}),
		sessionSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "lobbyd_session_swept_total",
			Help: "Expired verifying-key rows removed by the background sweep.",
		}),
	}
	return m
}

// Handler exposes the registry on /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one request's outcome. route should be the mux pattern
// (e.g. "POST /api"), not the raw path, to keep cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route, statusClass string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, statusClass).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// session.Metrics implementation.

func (m *Metrics) IncIssued()       { m.sessionIssued.Inc() }
func (m *Metrics) IncRefreshed()    { m.sessionRefreshed.Inc() }
func (m *Metrics) IncExpired()      { m.sessionExpired.Inc() }
func (m *Metrics) IncSwept(n int64) { m.sessionSwept.Add(float64(n)) }
