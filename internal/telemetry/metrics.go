// Package telemetry holds the Prometheus metric set and OpenTelemetry
// tracing setup shared by the adapters and services.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/ratelimit"
)

const namespace = "ares_mcp"

// Metrics holds all Prometheus metrics for the server.
// Pass to components that need to record metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	ToolCallsTotal          *prometheus.CounterVec
	ToolCallDuration        *prometheus.HistogramVec
	RegistryRequestsTotal   *prometheus.CounterVec
	RegistryRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of inbound MCP HTTP requests",
			},
			[]string{"method", "status"}, // status=ok/error
		),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Inbound MCP HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ToolCallsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total tool invocations",
			},
			[]string{"tool", "status"}, // status=ok/error
		),
		ToolCallDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Tool invocation duration in seconds, including rate-limit waits",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"tool"},
		),
		RegistryRequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_requests_total",
				Help:      "Total registry API requests by HTTP status code",
			},
			[]string{"method", "code"}, // code=200/404/.../transport
		),
		RegistryRequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registry_request_duration_seconds",
				Help:      "Registry API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(tool string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, statusLabel(ok)).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(seconds)
}

// ObserveRegistryRequest records one registry API request. code is the HTTP
// status or "transport" when no response was received.
func (m *Metrics) ObserveRegistryRequest(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RegistryRequestsTotal.WithLabelValues(method, code).Inc()
	m.RegistryRequestDuration.WithLabelValues(method).Observe(seconds)
}

// RegisterLimiterStats exposes rate limiter counters read from stats at
// scrape time.
func RegisterLimiterStats(reg prometheus.Registerer, stats func() ratelimit.Stats) {
	f := promauto.With(reg)
	f.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_window_requests",
			Help:      "Requests admitted within the current rate-limit window",
		},
		func() float64 { return float64(stats().Tracked) },
	)
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_admitted_total",
			Help:      "Total requests admitted by the rate limiter",
		},
		func() float64 { return float64(stats().Admitted) },
	)
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_waits_total",
			Help:      "Total times a caller had to wait for rate-limit quota",
		},
		func() float64 { return float64(stats().Waits) },
	)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
