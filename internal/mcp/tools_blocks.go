package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	headingLevels  = []string{"heading_1", "heading_2", "heading_3"}
	editableBlocks = append([]string{"paragraph"}, headingLevels...)
)

type blockIDInput struct {
	BlockID string `json:"block_id"`
}

type listBlocksInput struct {
	BlockID  string `json:"block_id"`
	PageSize int    `json:"page_size,omitempty"`
}

type appendParagraphInput struct {
	ParentBlockID string `json:"parent_block_id"`
	Text          string `json:"text"`
}

type appendParagraphOutput struct {
	Success      bool   `json:"success"`
	AddedBlockID string `json:"added_block_id,omitempty"`
}

type appendBlocksInput struct {
	ParentBlockID string           `json:"parent_block_id"`
	Blocks        []map[string]any `json:"blocks"`
}

type appendBlocksOutput struct {
	Success       bool     `json:"success"`
	AddedBlockIDs []string `json:"added_block_ids"`
}

type updateBlockTextInput struct {
	BlockID string `json:"block_id"`
	Type    string `json:"type"`
	Text    string `json:"text"`
}

type appendHeadingInput struct {
	ParentBlockID string `json:"parent_block_id"`
	Level         string `json:"level"`
	Text          string `json:"text"`
}

type appendTodoInput struct {
	ParentBlockID string `json:"parent_block_id"`
	Text          string `json:"text"`
	Checked       bool   `json:"checked"`
}

type appendImageInput struct {
	ParentBlockID string `json:"parent_block_id"`
	URL           string `json:"url"`
}

const absoluteURIPattern = `^[A-Za-z][A-Za-z0-9+.-]*:\S+$`

func blockIDSchema() *jsonschema.Schema {
	return object([]string{"block_id"}, map[string]*jsonschema.Schema{
		"block_id": idString("ID of the Notion block"),
	})
}

func parentBlockID() *jsonschema.Schema {
	return idString("ID of the page or block to append to")
}

func (s *Server) registerBlockTools() {
	addTool(s.registry, &mcp.Tool{
		Name:        "notion_list_blocks",
		Title:       "List Notion Blocks",
		Description: "Fetch the child blocks (content) of a Notion page or block",
		InputSchema: object([]string{"block_id"}, map[string]*jsonschema.Schema{
			"block_id":  idString("ID of the page or block"),
			"page_size": pageSize(),
		}),
	}, s.handleListBlocks)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_append_paragraph",
		Title:       "Append Paragraph",
		Description: "Append a paragraph of text to a page or block",
		InputSchema: object([]string{"parent_block_id", "text"}, map[string]*jsonschema.Schema{
			"parent_block_id": parentBlockID(),
			"text":            nonEmpty("Paragraph text"),
		}),
		OutputSchema: object([]string{"success"}, map[string]*jsonschema.Schema{
			"success":        {Type: "boolean"},
			"added_block_id": {Type: "string"},
		}),
	}, s.handleAppendParagraph)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_get_block",
		Title:       "Get Block",
		Description: "Read a single Notion block by block_id",
		InputSchema: blockIDSchema(),
	}, s.handleGetBlock)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_append_blocks",
		Title:       "Append Blocks",
		Description: "Append one or more blocks, in Notion block format, under a parent page or block",
		InputSchema: object([]string{"parent_block_id", "blocks"}, map[string]*jsonschema.Schema{
			"parent_block_id": parentBlockID(),
			"blocks":          objectArray("Blocks to append", 1),
		}),
		OutputSchema: object([]string{"success"}, map[string]*jsonschema.Schema{
			"success":         {Type: "boolean"},
			"added_block_ids": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		}),
	}, s.handleAppendBlocks)

	addTool(s.registry, &mcp.Tool{
		Name:  "notion_delete_block",
		Title: "Delete Block",
		Description: "Delete a block. Notion archives it, so it can still be restored " +
			"from the page history.",
		InputSchema: blockIDSchema(),
	}, s.handleDeleteBlock)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_update_block_text",
		Title:       "Update Block Text",
		Description: "Replace the rich_text of a paragraph or heading (1/2/3) block",
		InputSchema: object([]string{"block_id", "type", "text"}, map[string]*jsonschema.Schema{
			"block_id": idString("ID of the block to update"),
			"type":     enum("Current type of the block", editableBlocks...),
			"text":     nonEmpty("New text"),
		}),
	}, s.handleUpdateBlockText)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_append_heading",
		Title:       "Append Heading",
		Description: "Append a heading (1/2/3)",
		InputSchema: object([]string{"parent_block_id", "text"}, map[string]*jsonschema.Schema{
			"parent_block_id": parentBlockID(),
			"level":           withDefault(enum("Heading level", headingLevels...), "heading_2"),
			"text":            nonEmpty("Heading text"),
		}),
	}, s.handleAppendHeading)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_append_todo",
		Title:       "Append To-do",
		Description: "Append a to_do item (checkbox)",
		InputSchema: object([]string{"parent_block_id", "text"}, map[string]*jsonschema.Schema{
			"parent_block_id": parentBlockID(),
			"text":            nonEmpty("To-do text"),
			"checked":         withDefault(&jsonschema.Schema{Type: "boolean", Description: "Whether the box is ticked"}, false),
		}),
	}, s.handleAppendTodo)

	addTool(s.registry, &mcp.Tool{
		Name:        "notion_append_image_url",
		Title:       "Append Image (URL)",
		Description: "Append an image block pointing at an external URL",
		InputSchema: object([]string{"parent_block_id", "url"}, map[string]*jsonschema.Schema{
			"parent_block_id": parentBlockID(),
			// The validator ignores format, so the pattern enforces an absolute URI.
			"url": {
				Type:        "string",
				Format:      "uri",
				Pattern:     absoluteURIPattern,
				Description: "Public URL of the image",
			},
		}),
	}, s.handleAppendImageURL)
}

func (s *Server) handleListBlocks(ctx context.Context, _ *mcp.CallToolRequest, in listBlocksInput) (*mcp.CallToolResult, any, error) {
	list, err := s.client.ListBlockChildren(ctx, in.BlockID, in.PageSize)
	if err != nil {
		return nil, nil, err
	}
	return rawResult(list.Raw)
}

func (s *Server) handleGetBlock(ctx context.Context, _ *mcp.CallToolRequest, in blockIDInput) (*mcp.CallToolResult, any, error) {
	block, err := s.client.RetrieveBlock(ctx, in.BlockID)
	if err != nil {
		return nil, nil, err
	}
	return rawResult(block)
}

func (s *Server) handleAppendParagraph(ctx context.Context, _ *mcp.CallToolRequest, in appendParagraphInput) (*mcp.CallToolResult, appendParagraphOutput, error) {
	list, err := s.client.AppendBlockChildren(ctx, in.ParentBlockID, []map[string]any{
		models.TextBlock("paragraph", in.Text),
	})
	if err != nil {
		return nil, appendParagraphOutput{}, err
	}

	out := appendParagraphOutput{Success: true}
	if ids := addedIDs(list); len(ids) > 0 {
		out.AddedBlockID = ids[0]
	}
	return dualResult(out)
}

func (s *Server) handleAppendBlocks(ctx context.Context, _ *mcp.CallToolRequest, in appendBlocksInput) (*mcp.CallToolResult, appendBlocksOutput, error) {
	list, err := s.client.AppendBlockChildren(ctx, in.ParentBlockID, in.Blocks)
	if err != nil {
		return nil, appendBlocksOutput{}, err
	}
	return dualResult(appendBlocksOutput{Success: true, AddedBlockIDs: addedIDs(list)})
}

func (s *Server) handleDeleteBlock(ctx context.Context, _ *mcp.CallToolRequest, in blockIDInput) (*mcp.CallToolResult, any, error) {
	block, err := s.client.DeleteBlock(ctx, in.BlockID)
	if err != nil {
		return nil, nil, err
	}
	return rawResult(block)
}

func (s *Server) handleUpdateBlockText(ctx context.Context, _ *mcp.CallToolRequest, in updateBlockTextInput) (*mcp.CallToolResult, any, error) {
	block, err := s.client.UpdateBlock(ctx, in.BlockID, map[string]any{
		in.Type: map[string]any{"rich_text": models.TextSegments(in.Text)},
	})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(block)
}

func (s *Server) handleAppendHeading(ctx context.Context, _ *mcp.CallToolRequest, in appendHeadingInput) (*mcp.CallToolResult, any, error) {
	level := in.Level
	if level == "" {
		level = "heading_2"
	}
	return s.appendOne(ctx, in.ParentBlockID, models.TextBlock(level, in.Text))
}

func (s *Server) handleAppendTodo(ctx context.Context, _ *mcp.CallToolRequest, in appendTodoInput) (*mcp.CallToolResult, any, error) {
	return s.appendOne(ctx, in.ParentBlockID, models.TodoBlock(in.Text, in.Checked))
}

func (s *Server) handleAppendImageURL(ctx context.Context, _ *mcp.CallToolRequest, in appendImageInput) (*mcp.CallToolResult, any, error) {
	return s.appendOne(ctx, in.ParentBlockID, models.ExternalImageBlock(in.URL))
}

// appendOne appends a single block and returns Notion's append response as is.
func (s *Server) appendOne(ctx context.Context, parentID string, block map[string]any) (*mcp.CallToolResult, any, error) {
	list, err := s.client.AppendBlockChildren(ctx, parentID, []map[string]any{block})
	if err != nil {
		return nil, nil, err
	}
	return rawResult(list.Raw)
}

// addedIDs collects the non-empty ids of the blocks Notion reports as appended.
func addedIDs(list *models.List) []string {
	ids := []string{}
	for _, rec := range list.Records() {
		if rec.ID != "" {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}
