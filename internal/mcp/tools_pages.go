package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultDatabaseTitleProperty = "Name"
	defaultPageTitleProperty     = "title"
)

type pageIDInput struct {
	PageID string `json:"page_id"`
}

type createPageInput struct {
	DatabaseID    string         `json:"database_id"`
	Title         string         `json:"title"`
	TitleProperty string         `json:"title_property"`
	Properties    map[string]any `json:"properties,omitempty"`
}

type createSubpageInput struct {
	ParentPageID  string         `json:"parent_page_id"`
	Title         string         `json:"title"`
	TitleProperty string         `json:"title_property"`
	Properties    map[string]any `json:"properties,omitempty"`
}

type updatePageInput struct {
	PageID     string         `json:"page_id"`
	Properties map[string]any `json:"properties"`
}

func pageIDSchema() *jsonschema.Schema {
	return object([]string{"page_id"}, map[string]*jsonschema.Schema{
		"page_id": idString("ID of the Notion page"),
	})
}

func (s *Server) registerPageTools() {
	addTool(s.registry, &mcp.Tool{
		Name:        "notion_get_page",
		Title:       "Get Notion Page",
		Description: "Read the metadata and properties of a Notion page",
		InputSchema: pageIDSchema(),
	}, s.handleGetPage)

	addTool(s.registry, &mcp.Tool{
		Name:  "notion_create_page",
		Title: "Create Page In Database",
		Description: "Create a page in a Notion database. title_property names the database's title " +
			"property (default: \"Name\"). Extra properties are merged after the title and win on conflict.",
		InputSchema: object([]string{"database_id", "title"}, map[string]*jsonschema.Schema{
			"database_id":    idString("ID of the parent database"),
			"title":          nonEmpty("Title of the new page"),
			"title_property": withDefault(nonEmpty("Name of the title property"), defaultDatabaseTitleProperty),
			"properties":     openObject("Additional page properties in Notion format"),
		}),
	}, s.handleCreatePage)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_create_subpage",
		Title:       "Create Subpage",
		Description: "Create a child page under an existing Notion page (parent page_id)",
		InputSchema: object([]string{"parent_page_id", "title"}, map[string]*jsonschema.Schema{
			"parent_page_id": idString("ID of the parent page"),
			"title":          nonEmpty("Title of the new page"),
			"title_property": withDefault(nonEmpty("Name of the title property"), defaultPageTitleProperty),
			"properties":     openObject("Additional page properties in Notion format"),
		}),
	}, s.handleCreateSubpage)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_update_page",
		Title:       "Update Page Properties",
		Description: "Update properties of an existing Notion page",
		InputSchema: object([]string{"page_id", "properties"}, map[string]*jsonschema.Schema{
			"page_id":    idString("ID of the Notion page"),
			"properties": openObject("Properties to change, in Notion format"),
		}),
	}, s.handleUpdatePage)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_archive_page",
		Title:       "Archive Page",
		Description: "Archive an existing Notion page",
		InputSchema: pageIDSchema(),
	}, s.handleArchivePage)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_unarchive_page",
		Title:       "Unarchive Page",
		Description: "Restore an archived Notion page",
		InputSchema: pageIDSchema(),
	}, s.handleUnarchivePage)
}

func (s *Server) handleGetPage(ctx context.Context, _ *mcp.CallToolRequest, in pageIDInput) (*mcp.CallToolResult, any, error) {
	page, err := s.client.RetrievePage(ctx, in.PageID)
	if err != nil {
		return nil, nil, err
	}
	return rawResult(page)
}

func (s *Server) handleCreatePage(ctx context.Context, _ *mcp.CallToolRequest, in createPageInput) (*mcp.CallToolResult, any, error) {
	page, err := s.client.CreatePage(ctx, api.CreatePageParams{
		Parent:     api.Parent{DatabaseID: in.DatabaseID},
		Properties: titledProperties(in.TitleProperty, defaultDatabaseTitleProperty, in.Title, in.Properties),
	})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(page)
}

func (s *Server) handleCreateSubpage(ctx context.Context, _ *mcp.CallToolRequest, in createSubpageInput) (*mcp.CallToolResult, any, error) {
	page, err := s.client.CreatePage(ctx, api.CreatePageParams{
		Parent:     api.Parent{PageID: in.ParentPageID},
		Properties: titledProperties(in.TitleProperty, defaultPageTitleProperty, in.Title, in.Properties),
	})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(page)
}

func (s *Server) handleUpdatePage(ctx context.Context, _ *mcp.CallToolRequest, in updatePageInput) (*mcp.CallToolResult, any, error) {
	page, err := s.client.UpdatePage(ctx, in.PageID, api.UpdatePageParams{Properties: in.Properties})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(page)
}

func (s *Server) handleArchivePage(ctx context.Context, _ *mcp.CallToolRequest, in pageIDInput) (*mcp.CallToolResult, any, error) {
	return s.setArchived(ctx, in.PageID, true)
}

func (s *Server) handleUnarchivePage(ctx context.Context, _ *mcp.CallToolRequest, in pageIDInput) (*mcp.CallToolResult, any, error) {
	return s.setArchived(ctx, in.PageID, false)
}

func (s *Server) setArchived(ctx context.Context, pageID string, archived bool) (*mcp.CallToolResult, any, error) {
	page, err := s.client.UpdatePage(ctx, pageID, api.UpdatePageParams{Archived: &archived})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(page)
}

// titledProperties puts the title under titleProperty first and then copies
// extra over it, so a caller-supplied key of the same name replaces the title.
func titledProperties(titleProperty, fallback, title string, extra map[string]any) map[string]any {
	if titleProperty == "" {
		titleProperty = fallback
	}
	props := make(map[string]any, len(extra)+1)
	props[titleProperty] = models.TitleProperty(title)
	for k, v := range extra {
		props[k] = v
	}
	return props
}
