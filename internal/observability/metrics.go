package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus instruments for the service. A nil
// receiver is safe and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec

	classifyTotal    *prometheus.CounterVec
	statsCacheHits   prometheus.Counter
	statsCacheMisses prometheus.Counter
}

// NewMetrics registers all instruments on a private registry so
// repeated construction never collides.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ticketdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "http_errors_total",
			Help:      "Application errors by route, method and code.",
		}, []string{"path", "method", "code"}),
		classifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "classification_requests_total",
			Help:      "Classification gateway calls by outcome.",
		}, []string{"outcome"}),
		statsCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "stats_cache_hits_total",
			Help:      "Stats responses served from cache.",
		}),
		statsCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "stats_cache_misses_total",
			Help:      "Stats requests that fell through to the database.",
		}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.errorTotal,
		m.classifyTotal,
		m.statsCacheHits,
		m.statsCacheMisses,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(path, method, code).Inc()
}

// RecordClassification tracks a gateway call outcome ("ok" or "error").
func (m *Metrics) RecordClassification(outcome string) {
	if m == nil {
		return
	}
	m.classifyTotal.WithLabelValues(outcome).Inc()
}

// RecordStatsCacheHit counts a stats read served from cache.
func (m *Metrics) RecordStatsCacheHit() {
	if m == nil {
		return
	}
	m.statsCacheHits.Inc()
}

// RecordStatsCacheMiss counts a stats read that hit the database.
func (m *Metrics) RecordStatsCacheMiss() {
	if m == nil {
		return
	}
	m.statsCacheMisses.Inc()
}
