package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// completer returns the candidates matching a partial argument value.
type completer func(partial string) []string

// registry tracks what was registered on the SDK server so names stay unique
// and prompt arguments can carry completion functions.
type registry struct {
	server *mcp.Server

	tools     map[string]*mcp.Tool
	toolOrder []string

	prompts     map[string]*mcp.Prompt
	promptOrder []string
	completers  map[string]map[string]completer
}

func newRegistry() *registry {
	return &registry{
		tools:      make(map[string]*mcp.Tool),
		prompts:    make(map[string]*mcp.Prompt),
		completers: make(map[string]map[string]completer),
	}
}

// addTool registers a typed tool. A duplicate name is a programming error.
func addTool[In, Out any](r *registry, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	if _, dup := r.tools[tool.Name]; dup {
		panic(fmt.Sprintf("duplicate tool registration: %q", tool.Name))
	}
	r.tools[tool.Name] = tool
	r.toolOrder = append(r.toolOrder, tool.Name)
	mcp.AddTool(r.server, tool, handler)
}

// addPrompt registers a prompt and the completion functions of its arguments.
func (r *registry) addPrompt(prompt *mcp.Prompt, handler mcp.PromptHandler, completers map[string]completer) {
	if _, dup := r.prompts[prompt.Name]; dup {
		panic(fmt.Sprintf("duplicate prompt registration: %q", prompt.Name))
	}
	r.prompts[prompt.Name] = prompt
	r.promptOrder = append(r.promptOrder, prompt.Name)
	if len(completers) > 0 {
		r.completers[prompt.Name] = completers
	}
	r.server.AddPrompt(prompt, handler)
}

// hasTool reports whether name is registered. The maps are not written after
// NewServer returns, so concurrent sessions may call it.
func (r *registry) hasTool(name string) bool {
	_, ok := r.tools[name]
	return ok
}

func (r *registry) toolList() []*mcp.Tool {
	out := make([]*mcp.Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *registry) promptList() []*mcp.Prompt {
	out := make([]*mcp.Prompt, 0, len(r.promptOrder))
	for _, name := range r.promptOrder {
		out = append(out, r.prompts[name])
	}
	return out
}

// complete answers completion/complete requests for prompt arguments.
// Unknown prompts or arguments complete to nothing.
func (r *registry) complete(_ context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	values := []string{}
	if req.Params != nil && req.Params.Ref != nil && req.Params.Ref.Type == "ref/prompt" {
		if fn, ok := r.completers[req.Params.Ref.Name][req.Params.Argument.Name]; ok {
			if matches := fn(req.Params.Argument.Value); matches != nil {
				values = matches
			}
		}
	}

	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values:  values,
			Total:   len(values),
			HasMore: false,
		},
	}, nil
}
