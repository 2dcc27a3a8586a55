package mcp

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	tool   string
	failed bool
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *recordingMetrics) ObserveRequest(method, tool string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{method: method, tool: tool, failed: err != nil})
}

func (m *recordingMetrics) find(method, tool string) []observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []observation
	for _, o := range m.obs {
		if o.method == method && o.tool == tool {
			out = append(out, o)
		}
	}
	return out
}

func TestObserveMiddlewareRecordsToolCalls(t *testing.T) {
	metrics := &recordingMetrics{}
	stub := newStub()
	cs := connect(t, NewServer(stub, Options{Metrics: metrics}))

	mustCall(t, cs, "notion_get_page", map[string]any{"page_id": "p1"})

	stub.err = errors.New("boom")
	res, err := callTool(t, cs, "notion_get_block", map[string]any{"block_id": "b1"})
	require.NoError(t, err)
	require.True(t, res.IsError)

	ok := metrics.find("tools/call", "notion_get_page")
	require.Len(t, ok, 1)
	assert.False(t, ok[0].failed)

	failed := metrics.find("tools/call", "notion_get_block")
	require.Len(t, failed, 1)
	assert.True(t, failed[0].failed)

	assert.NotEmpty(t, metrics.find("initialize", ""))
}

func TestObserveMiddlewareBoundsUnknownToolLabel(t *testing.T) {
	metrics := &recordingMetrics{}
	stub := newStub()
	cs := connect(t, NewServer(stub, Options{Metrics: metrics}))

	for _, name := range []string{"notion_nope", "made_up_1", "made_up_2"} {
		res, err := callTool(t, cs, name, map[string]any{})
		assert.True(t, rejected(res, err), name)
	}

	assert.Len(t, metrics.find("tools/call", unknownTool), 3)
	assert.Empty(t, metrics.find("tools/call", "notion_nope"))
	assert.Empty(t, metrics.find("tools/call", "made_up_1"))
	assert.Empty(t, stub.Calls())
}
