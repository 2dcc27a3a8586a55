package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kutbudev/notion-mcp/internal/mcp"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"
)

func NewToolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List the MCP tools this server exposes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print tool definitions as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			tools := mcp.ToolCatalog()
			if c.Bool("json") || !isTerminal(os.Stdout) {
				return writeJSON(c.App.Writer, tools)
			}
			return renderMarkdown(c.App.Writer, toolsMarkdown(tools))
		},
	}
}

// toolsMarkdown lays the catalog out as a table of names, titles and arguments.
func toolsMarkdown(tools []*sdk.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Notion MCP tools (%d)\n\n", len(tools))
	b.WriteString("| Tool | Title | Arguments |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, tool := range tools {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", tool.Name, tool.Title, argumentSummary(tool))
	}
	return b.String()
}

// argumentSummary lists input properties, required ones first and marked with *.
func argumentSummary(tool *sdk.Tool) string {
	schema, ok := tool.InputSchema.(*jsonschema.Schema)
	if !ok || schema == nil {
		return ""
	}
	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	for i, name := range names {
		if required[name] {
			names[i] = name + "*"
		}
	}
	return strings.Join(names, ", ")
}

func renderMarkdown(w io.Writer, markdown string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		_, err = io.WriteString(w, markdown)
		return err
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		_, err = io.WriteString(w, markdown)
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
