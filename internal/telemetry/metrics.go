package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records MCP traffic. Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveRequest(method, tool string, duration time.Duration, err error)
}

type PrometheusMetrics struct {
	requests     *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notion_mcp_requests_total",
				Help: "Total number of MCP requests by method, tool and status",
			},
			[]string{"method", "tool", "status"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notion_mcp_tool_call_duration_seconds",
				Help:    "Duration of tool calls in seconds, including the Notion round trip",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
	}
}

func (m *PrometheusMetrics) ObserveRequest(method, tool string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.requests.WithLabelValues(method, tool, status).Inc()
	if tool != "" {
		m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
	}
}

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveRequest(_, _ string, _ time.Duration, _ error) {}

var (
	_ Metrics = (*PrometheusMetrics)(nil)
	_ Metrics = (*NoopMetrics)(nil)
)
