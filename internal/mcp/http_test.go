package mcp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPTestServer(t *testing.T, stub *stubAPI, opts HTTPOptions) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewHTTPHandler(NewServer(stub, Options{}), opts))
	t.Cleanup(ts.Close)
	return ts
}

func postRPC(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeRPC(t *testing.T, resp *http.Response) rpcResponse {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out rpcResponse
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestHTTPListTools(t *testing.T) {
	ts := newHTTPTestServer(t, newStub(), HTTPOptions{})

	resp := postRPC(t, ts.URL+"/mcp", `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	rpc := decodeRPC(t, resp)
	require.Nil(t, rpc.Error)
	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rpc.Result, &result))
	assert.Len(t, result.Tools, len(allTools))
}

func TestHTTPCallTool(t *testing.T) {
	stub := newStub().respond("RetrievePage", `{"object":"page","id":"p1","url":"https://notion.so/p1"}`)
	ts := newHTTPTestServer(t, stub, HTTPOptions{Path: "/rpc"})

	resp := postRPC(t, ts.URL+"/rpc", `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"notion_get_page","arguments":{"page_id":"p1"}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rpc := decodeRPC(t, resp)
	require.Nil(t, rpc.Error)
	assert.Equal(t, 7, rpc.ID)

	var result struct {
		IsError           bool           `json:"isError"`
		StructuredContent map[string]any `json:"structuredContent"`
	}
	require.NoError(t, json.Unmarshal(rpc.Result, &result))
	assert.False(t, result.IsError)
	assert.Equal(t, "https://notion.so/p1", result.StructuredContent["url"])
	require.Len(t, stub.Calls(), 1)
}

func TestHTTPOnlyPostOnPath(t *testing.T) {
	ts := newHTTPTestServer(t, newStub(), HTTPOptions{})

	resp, err := http.Get(ts.URL + "/mcp")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = postRPC(t, ts.URL+"/other", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPBodyLimit(t *testing.T) {
	stub := newStub()
	ts := newHTTPTestServer(t, stub, HTTPOptions{MaxBodyBytes: 64})

	big := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"notion_get_page","arguments":{"page_id":"` +
		strings.Repeat("x", 256) + `"}}}`
	resp := postRPC(t, ts.URL+"/mcp", big)
	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)
	assert.Empty(t, stub.Calls())
}
