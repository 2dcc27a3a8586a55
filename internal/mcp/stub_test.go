package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const (
	emptyList  = `{"object":"list","results":[],"has_more":false}`
	pageObject = `{"object":"page","id":"p1","archived":false}`
)

type stubCall struct {
	Method string
	ID     string
	Params any
}

// stubAPI records every call and answers with canned JSON bodies keyed by method.
type stubAPI struct {
	mu        sync.Mutex
	calls     []stubCall
	responses map[string]string
	err       error
}

func newStub() *stubAPI {
	return &stubAPI{responses: map[string]string{}}
}

func (s *stubAPI) respond(method, body string) *stubAPI {
	s.responses[method] = body
	return s
}

func (s *stubAPI) Calls() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}

func (s *stubAPI) record(method, id string, params any, fallback string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{Method: method, ID: id, Params: params})
	if s.err != nil {
		return "", s.err
	}
	if body, ok := s.responses[method]; ok {
		return body, nil
	}
	return fallback, nil
}

func (s *stubAPI) raw(method, id string, params any) (json.RawMessage, error) {
	body, err := s.record(method, id, params, pageObject)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (s *stubAPI) list(method, id string, params any) (*models.List, error) {
	body, err := s.record(method, id, params, emptyList)
	if err != nil {
		return nil, err
	}
	return models.DecodeList([]byte(body))
}

func (s *stubAPI) Search(_ context.Context, params api.SearchParams) (*models.List, error) {
	return s.list("Search", "", params)
}

func (s *stubAPI) RetrievePage(_ context.Context, pageID string) (json.RawMessage, error) {
	return s.raw("RetrievePage", pageID, nil)
}

func (s *stubAPI) CreatePage(_ context.Context, params api.CreatePageParams) (json.RawMessage, error) {
	return s.raw("CreatePage", "", params)
}

func (s *stubAPI) UpdatePage(_ context.Context, pageID string, params api.UpdatePageParams) (json.RawMessage, error) {
	return s.raw("UpdatePage", pageID, params)
}

func (s *stubAPI) ListBlockChildren(_ context.Context, blockID string, pageSize int) (*models.List, error) {
	return s.list("ListBlockChildren", blockID, pageSize)
}

func (s *stubAPI) RetrieveBlock(_ context.Context, blockID string) (json.RawMessage, error) {
	return s.raw("RetrieveBlock", blockID, nil)
}

func (s *stubAPI) AppendBlockChildren(_ context.Context, blockID string, children []map[string]any) (*models.List, error) {
	return s.list("AppendBlockChildren", blockID, children)
}

func (s *stubAPI) UpdateBlock(_ context.Context, blockID string, payload map[string]any) (json.RawMessage, error) {
	return s.raw("UpdateBlock", blockID, payload)
}

func (s *stubAPI) DeleteBlock(_ context.Context, blockID string) (json.RawMessage, error) {
	return s.raw("DeleteBlock", blockID, nil)
}

func (s *stubAPI) QueryDatabase(_ context.Context, databaseID string, params api.QueryParams) (*models.List, error) {
	return s.list("QueryDatabase", databaseID, params)
}

// connect runs srv over in-memory transports and returns the client session.
func connect(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func connectStub(t *testing.T, stub *stubAPI) *mcp.ClientSession {
	t.Helper()
	return connect(t, NewServer(stub, Options{}))
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	return cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
}

// mustCall calls a tool and fails the test unless it succeeded.
func mustCall(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := callTool(t, cs, name, args)
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s failed: %s", name, resultText(res))
	return res
}

func resultText(res *mcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

// structured returns the structured content decoded into a generic value.
func structured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// rejected reports whether a call failed, either as a protocol error or as an
// error result.
func rejected(res *mcp.CallToolResult, err error) bool {
	return err != nil || (res != nil && res.IsError)
}
