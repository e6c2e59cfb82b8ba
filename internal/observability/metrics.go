package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported by the portal.
type Metrics struct {
	Registry *prometheus.Registry

	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	authEvents     *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	activeClients  prometheus.Gauge
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Rendered error responses by code.",
		}, []string{"path", "method", "code"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_events_total",
			Help: "Provider auth events seen by session stores, split by outcome.",
		}, []string{"event", "outcome"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_guard_decisions_total",
			Help: "Route guard decisions.",
		}, []string{"role", "decision"}),
		activeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_active_clients",
			Help: "Client contexts currently held in memory.",
		}),
	}
	m.Registry.MustRegister(m.requests, m.requestLatency, m.errors, m.authEvents, m.guardDecisions, m.activeClients)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordAuthEvent counts an auth event as applied or suppressed.
func (m *Metrics) RecordAuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

// RecordGuardDecision counts a route guard outcome.
func (m *Metrics) RecordGuardDecision(role, decision string) {
	if m == nil {
		return
	}
	if role == "" {
		role = "any"
	}
	m.guardDecisions.WithLabelValues(role, decision).Inc()
}

// SetActiveClients reports the size of the client registry.
func (m *Metrics) SetActiveClients(n int) {
	if m == nil {
		return
	}
	m.activeClients.Set(float64(n))
}
