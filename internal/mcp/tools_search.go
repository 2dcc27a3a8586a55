package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

type searchInput struct {
	Query    string        `json:"query"`
	Filter   *searchFilter `json:"filter,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
}

type listDatabasesInput struct {
	Query    string `json:"query,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

func searchOutputSchema() *jsonschema.Schema {
	item := object([]string{"id", "object"}, map[string]*jsonschema.Schema{
		"id":     {Type: "string"},
		"object": {Type: "string"},
		"title":  {Type: "string"},
		"url":    {Type: "string"},
	})
	return object([]string{"results", "has_more"}, map[string]*jsonschema.Schema{
		"results":  {Type: "array", Items: item},
		"has_more": {Type: "boolean"},
	})
}

func (s *Server) registerSearchTools() {
	addTool(s.registry, &mcp.Tool{
		Name:        "notion_search",
		Title:       "Notion Search",
		Description: "Search Notion pages and databases shared with the integration",
		InputSchema: object([]string{"query"}, map[string]*jsonschema.Schema{
			"query": nonEmpty("Text to search for"),
			"filter": object([]string{"value", "property"}, map[string]*jsonschema.Schema{
				"value":    enum("Restrict results to pages or databases", models.ObjectPage, models.ObjectDatabase),
				"property": enum("Always \"object\"", "object"),
			}),
			"page_size": pageSize(),
		}),
		OutputSchema: searchOutputSchema(),
	}, s.handleSearch)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_list_databases",
		Title:       "List Databases",
		Description: "Search for databases in the workspace",
		InputSchema: object(nil, map[string]*jsonschema.Schema{
			"query":     optionalString("Optional text to match database titles"),
			"page_size": pageSize(),
		}),
	}, s.handleListDatabases)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, searchOutput, error) {
	params := api.SearchParams{Query: in.Query, PageSize: in.PageSize}
	if in.Filter != nil {
		params.Filter = &api.SearchFilter{Value: in.Filter.Value, Property: in.Filter.Property}
	}

	list, err := s.client.Search(ctx, params)
	if err != nil {
		return nil, searchOutput{}, err
	}

	out := searchOutput{Results: []searchItem{}, HasMore: list.HasMore}
	for _, rec := range list.Records() {
		out.Results = append(out.Results, summarize(rec))
	}
	return dualResult(out)
}

func (s *Server) handleListDatabases(ctx context.Context, _ *mcp.CallToolRequest, in listDatabasesInput) (*mcp.CallToolResult, any, error) {
	list, err := s.client.Search(ctx, api.SearchParams{
		Query:    in.Query,
		Filter:   &api.SearchFilter{Value: models.ObjectDatabase, Property: "object"},
		PageSize: in.PageSize,
	})
	if err != nil {
		return nil, nil, err
	}

	out := searchOutput{Results: []searchItem{}, HasMore: list.HasMore}
	for _, rec := range list.Records() {
		title, _ := rec.DatabaseTitle()
		out.Results = append(out.Results, searchItem{ID: rec.ID, Object: rec.Object, Title: title, URL: rec.URL})
	}
	return dualResult[any](out)
}

// summarize reduces a search hit to its id, kind, title and URL. Objects other
// than pages and databases keep only id and kind.
func summarize(rec *models.Record) searchItem {
	item := searchItem{ID: rec.ID, Object: rec.Object}
	switch rec.Object {
	case models.ObjectPage:
		item.Title, _ = rec.PageTitle()
		item.URL = rec.URL
	case models.ObjectDatabase:
		item.Title, _ = rec.DatabaseTitle()
		item.URL = rec.URL
	}
	return item
}
