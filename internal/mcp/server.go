package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/kutbudev/notion-mcp/internal/telemetry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	serverName     = "notion-mcp-server"
	defaultVersion = "0.1.8"
)

// NotionAPI is the part of the Notion client the tool handlers use.
// *api.Client implements it; tests substitute a recording stub.
type NotionAPI interface {
	Search(ctx context.Context, params api.SearchParams) (*models.List, error)
	RetrievePage(ctx context.Context, pageID string) (json.RawMessage, error)
	CreatePage(ctx context.Context, params api.CreatePageParams) (json.RawMessage, error)
	UpdatePage(ctx context.Context, pageID string, params api.UpdatePageParams) (json.RawMessage, error)
	ListBlockChildren(ctx context.Context, blockID string, pageSize int) (*models.List, error)
	RetrieveBlock(ctx context.Context, blockID string) (json.RawMessage, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []map[string]any) (*models.List, error)
	UpdateBlock(ctx context.Context, blockID string, payload map[string]any) (json.RawMessage, error)
	DeleteBlock(ctx context.Context, blockID string) (json.RawMessage, error)
	QueryDatabase(ctx context.Context, databaseID string, params api.QueryParams) (*models.List, error)
}

var _ NotionAPI = (*api.Client)(nil)

// Options configures NewServer. Zero values are valid.
type Options struct {
	Version string
	Logger  *zap.Logger
	Metrics telemetry.Metrics
}

// Server is the MCP server exposing Notion tools and prompts. It is built once
// and shared by every transport session.
type Server struct {
	server   *mcp.Server
	client   NotionAPI
	logger   *zap.Logger
	registry *registry
}

// NewServer builds the server and registers the full tool and prompt catalog.
// It panics if two tools or two prompts share a name.
func NewServer(client NotionAPI, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NewNoopMetrics()
	}
	if opts.Version == "" {
		opts.Version = defaultVersion
	}

	reg := newRegistry()
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: opts.Version,
		},
		&mcp.ServerOptions{
			CompletionHandler: reg.complete,
			Instructions: `Tools for reading and editing a Notion workspace.

Use notion_search or notion_list_databases to find ids, then read with notion_get_page,
notion_list_blocks or notion_query_database. Write with the notion_append_*, notion_create_*
and notion_update_* tools. notion_delete_block archives the block; it can be restored in Notion.`,
		},
	)
	reg.server = server
	server.AddReceivingMiddleware(observeMiddleware(opts.Logger, opts.Metrics, reg.hasTool))

	s := &Server{
		server:   server,
		client:   client,
		logger:   opts.Logger,
		registry: reg,
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// MCPServer exposes the underlying SDK server for transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Tools returns the registered tool definitions in registration order.
func (s *Server) Tools() []*mcp.Tool {
	return s.registry.toolList()
}

// Prompts returns the registered prompt definitions in registration order.
func (s *Server) Prompts() []*mcp.Prompt {
	return s.registry.promptList()
}

// ToolCatalog lists every tool without needing a Notion client.
func ToolCatalog() []*mcp.Tool {
	return NewServer(nil, Options{}).Tools()
}

// ServeStdio runs the server over stdin/stdout until the client disconnects or
// ctx is cancelled.
func ServeStdio(ctx context.Context, s *Server) error {
	if s == nil {
		return errors.New("server is required")
	}
	s.logger.Info("serving MCP over stdio")
	err := s.server.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
