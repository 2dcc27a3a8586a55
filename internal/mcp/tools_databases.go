package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type queryDatabaseInput struct {
	DatabaseID  string           `json:"database_id"`
	Filter      map[string]any   `json:"filter,omitempty"`
	Sorts       []map[string]any `json:"sorts,omitempty"`
	StartCursor string           `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

type listPagesInput struct {
	DatabaseID string `json:"database_id"`
	PageSize   int    `json:"page_size,omitempty"`
}

type pageItem struct {
	ID    string `json:"id"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

type pageListOutput struct {
	Results []pageItem `json:"results"`
	HasMore bool       `json:"has_more"`
}

func (s *Server) registerDatabaseTools() {
	addTool(s.registry, &mcp.Tool{
		Name:        "notion_query_database",
		Title:       "Query Database",
		Description: "Run a Notion database query with filter, sorts, start_cursor and page_size",
		InputSchema: object([]string{"database_id"}, map[string]*jsonschema.Schema{
			"database_id":  idString("ID of the database"),
			"filter":       openObject("Filter object in Notion query format"),
			"sorts":        objectArray("Sort objects in Notion query format", 0),
			"start_cursor": optionalString("Cursor from a previous next_cursor"),
			"page_size":    pageSize(),
		}),
	}, s.handleQueryDatabase)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_list_pages_in_database",
		Title:       "List Pages In Database",
		Description: "List the pages of a database without filtering",
		InputSchema: object([]string{"database_id"}, map[string]*jsonschema.Schema{
			"database_id": idString("ID of the database"),
			"page_size":   pageSize(),
		}),
	}, s.handleListPagesInDatabase)
}

func (s *Server) handleQueryDatabase(ctx context.Context, _ *mcp.CallToolRequest, in queryDatabaseInput) (*mcp.CallToolResult, any, error) {
	list, err := s.client.QueryDatabase(ctx, in.DatabaseID, api.QueryParams{
		Filter:      in.Filter,
		Sorts:       in.Sorts,
		StartCursor: in.StartCursor,
		PageSize:    in.PageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(list.Raw)
}

func (s *Server) handleListPagesInDatabase(ctx context.Context, _ *mcp.CallToolRequest, in listPagesInput) (*mcp.CallToolResult, any, error) {
	list, err := s.client.QueryDatabase(ctx, in.DatabaseID, api.QueryParams{PageSize: in.PageSize})
	if err != nil {
		return nil, nil, err
	}

	out := pageListOutput{Results: []pageItem{}, HasMore: list.HasMore}
	for _, rec := range list.Records() {
		title, _ := rec.PageTitle()
		out.Results = append(out.Results, pageItem{ID: rec.ID, URL: rec.URL, Title: title})
	}
	return dualResult[any](out)
}
