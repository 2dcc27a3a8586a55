package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsObserveRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	metrics.ObserveRequest("tools/call", "notion_search", 20*time.Millisecond, nil)
	metrics.ObserveRequest("tools/call", "notion_search", 30*time.Millisecond, errors.New("boom"))
	metrics.ObserveRequest("tools/list", "", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("tools/call", "notion_search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("tools/call", "notion_search", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("tools/list", "", "ok")))

	count, err := testutil.GatherAndCount(registry, "notion_mcp_tool_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only tool calls get a duration series")
}

func TestStartMetricsServerDisabled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, StartMetricsServer(ctx, "", nil, nil))
}
