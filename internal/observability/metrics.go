package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal's prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	sessionChanges   *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	portalErrors     *prometheus.CounterVec
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_session_changes_total",
			Help: "Session state changes broadcast to views, by reason.",
		}, []string{"reason"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_upstream_requests_total",
			Help: "Requests sent to the ticket API.",
		}, []string{"method", "route", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_upstream_request_duration_seconds",
			Help:    "Latency of ticket API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		portalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Errors returned by the local portal, by code.",
		}, []string{"path", "method", "code"}),
	}
	m.registry.MustRegister(m.sessionChanges, m.upstreamRequests, m.upstreamDuration, m.portalErrors)
	return m
}

// RecordSessionChange counts a broadcast session notification.
func (m *Metrics) RecordSessionChange(reason string) {
	if m == nil {
		return
	}
	m.sessionChanges.WithLabelValues(reason).Inc()
}

// RecordUpstream records one ticket API round trip. status 0 means transport failure.
func (m *Metrics) RecordUpstream(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.portalErrors.WithLabelValues(path, method, code).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
