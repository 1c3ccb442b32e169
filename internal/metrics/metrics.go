package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the SkillShare API.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics.
	SessionsCreatedTotal prometheus.Counter
	SessionJoinsTotal    prometheus.Counter
	SessionLeavesTotal   prometheus.Counter
	TagSuggestionsTotal  *prometheus.CounterVec

	// Auth metrics.
	AuthSuccessesTotal prometheus.Counter
	AuthFailuresTotal  prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillshare_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillshare_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		SessionsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillshare_sessions_created_total",
			Help: "Total number of sessions created.",
		}),

		SessionJoinsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillshare_session_joins_total",
			Help: "Total number of successful session joins.",
		}),

		SessionLeavesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillshare_session_leaves_total",
			Help: "Total number of successful session leaves.",
		}),

		TagSuggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillshare_tag_suggestions_total",
			Help: "Total number of tag suggestion requests by outcome.",
		}, []string{"outcome"}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillshare_auth_successes_total",
			Help: "Total number of successful sign-ins.",
		}),

		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillshare_auth_failures_total",
			Help: "Total number of failed sign-ins.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skillshare_server_start_time_seconds",
			Help: "Unix timestamp of server start.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SessionsCreatedTotal,
		m.SessionJoinsTotal,
		m.SessionLeavesTotal,
		m.TagSuggestionsTotal,
		m.AuthSuccessesTotal,
		m.AuthFailuresTotal,
		m.ServerStartTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.ServerStartTime.SetToCurrentTime()

	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one completed HTTP request.
func (m *Metrics) ObserveHTTP(method, pathPattern string, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
}
