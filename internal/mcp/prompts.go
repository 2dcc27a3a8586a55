package mcp

import (
	"context"
	"fmt"

	"github.com/kutbudev/notion-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds the helper prompts that produce JSON snippets for the tools.
func (s *Server) registerPrompts() {
	// Filter skeleton for notion_query_database
	s.registry.addPrompt(&mcp.Prompt{
		Name:        "notion_build_filter",
		Title:       "Build Database Filter",
		Description: "Build a simple filter for database queries",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "property",
				Description: "Database property to filter on",
				Required:    true,
			},
			{
				Name:        "operator",
				Description: "Filter operator, e.g. equals or contains",
				Required:    true,
			},
			{
				Name:        "value",
				Description: "Value to compare against",
				Required:    false,
			},
		},
	}, handleBuildFilterPrompt, map[string]completer{
		"property": completeProperty,
		"operator": completeOperator,
	})

	// Block array for notion_append_blocks
	s.registry.addPrompt(&mcp.Prompt{
		Name:        "notion_blocks_snippet",
		Title:       "Blocks Snippet",
		Description: "Generate blocks JSON for notion_append_blocks",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "type",
				Description: "Block type",
				Required:    true,
			},
			{
				Name:        "text",
				Description: "Text of the block",
				Required:    true,
			},
		},
	}, handleBlocksSnippetPrompt, map[string]completer{
		"type": completeBlockType,
	})

	// Properties object for notion_create_page
	s.registry.addPrompt(&mcp.Prompt{
		Name:        "notion_create_page_snippet",
		Title:       "Create Page Snippet",
		Description: "Generate properties JSON for page creation",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "title_property",
				Description: "Name of the title property (empty means \"Name\")",
				Required:    true,
			},
			{
				Name:        "title",
				Description: "Title of the page",
				Required:    true,
			},
		},
	}, handleCreatePageSnippetPrompt, nil)
}

func handleBuildFilterPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args, err := promptArgs(req, "property", "operator")
	if err != nil {
		return nil, err
	}

	filter := map[string]any{
		"filter": map[string]any{
			"property":  args["property"],
			"rich_text": map[string]any{"contains": args["value"]},
		},
	}
	text, err := prettyJSON(filter)
	if err != nil {
		return nil, err
	}

	return assistantText(fmt.Sprintf("Use this filter in notion_query_database:\n\n%s\n\n"+
		"Operators supported vary by property type. Adjust 'rich_text' to e.g. 'title', 'status', "+
		"'select', etc., and operator to 'equals', 'contains', ...", text)), nil
}

func handleBlocksSnippetPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args, err := promptArgs(req, "type", "text")
	if err != nil {
		return nil, err
	}

	var block map[string]any
	if args["type"] == "to_do" {
		block = models.TodoBlock(args["text"], false)
	} else {
		block = models.TextBlock(args["type"], args["text"])
	}
	text, err := prettyJSON([]map[string]any{block})
	if err != nil {
		return nil, err
	}
	return assistantText("Blocks JSON:\n\n" + text), nil
}

func handleCreatePageSnippetPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args, err := promptArgs(req, "title_property", "title")
	if err != nil {
		return nil, err
	}

	titleProperty := args["title_property"]
	if titleProperty == "" {
		titleProperty = defaultDatabaseTitleProperty
	}
	text, err := prettyJSON(map[string]any{titleProperty: models.TitleProperty(args["title"])})
	if err != nil {
		return nil, err
	}
	return assistantText("Properties JSON:\n\n" + text), nil
}

// promptArgs returns the request arguments after checking the required ones are
// present. Present but empty values are accepted.
func promptArgs(req *mcp.GetPromptRequest, required ...string) (map[string]string, error) {
	var args map[string]string
	if req != nil && req.Params != nil {
		args = req.Params.Arguments
	}
	for _, name := range required {
		if _, ok := args[name]; !ok {
			return nil, fmt.Errorf("%s is required", name)
		}
	}
	if args == nil {
		args = map[string]string{}
	}
	return args, nil
}

func assistantText(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "assistant",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
