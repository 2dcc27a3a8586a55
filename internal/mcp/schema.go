package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

const maxPageSize = 100

func ptr[T any](v T) *T {
	return &v
}

// object builds an object schema. Unknown keys are not rejected.
func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// nonEmpty is a string that must carry at least one character.
func nonEmpty(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", MinLength: ptr(1), Description: description}
}

// idString is a Notion identifier. Ids are opaque, so any non-empty string passes.
func idString(description string) *jsonschema.Schema {
	return nonEmpty(description)
}

func optionalString(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func pageSize() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Minimum:     ptr(1.0),
		Maximum:     ptr(float64(maxPageSize)),
		Description: "Number of results to return (1-100)",
	}
}

func enum(description string, values ...string) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string", Description: description}
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

// openObject accepts any JSON object; its contents go to Notion as-is.
func openObject(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Description: description}
}

func objectArray(description string, minItems int) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        "array",
		Items:       &jsonschema.Schema{Type: "object"},
		Description: description,
	}
	if minItems > 0 {
		s.MinItems = ptr(minItems)
	}
	return s
}

// withDefault sets the value the SDK fills in when the argument is absent.
func withDefault(s *jsonschema.Schema, value any) *jsonschema.Schema {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	s.Default = raw
	return s
}
