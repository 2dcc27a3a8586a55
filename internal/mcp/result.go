package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// dualResult returns out both as pretty-printed text content and, through the
// SDK, as structured content. Every tool answers through here.
func dualResult[T any](out T) (*mcp.CallToolResult, T, error) {
	text, err := prettyJSON(out)
	if err != nil {
		var zero T
		return nil, zero, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}

// rawResult hands a Notion response back unchanged.
func rawResult(raw json.RawMessage) (*mcp.CallToolResult, any, error) {
	return dualResult[any](raw)
}

// prettyJSON indents with two spaces and leaves <, > and & unescaped so text
// content reads the same as the remote payload.
func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
