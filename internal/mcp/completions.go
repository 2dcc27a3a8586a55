package mcp

import "strings"

var (
	filterProperties = []string{"Name", "Title", "Status", "Assignee", "Tags", "Priority", "Done"}

	filterOperators = []string{
		"equals", "does_not_equal", "contains", "does_not_contain",
		"starts_with", "ends_with", "greater_than", "less_than",
		"on_or_after", "on_or_before", "is_empty", "is_not_empty",
	}

	snippetBlockTypes = []string{"paragraph", "heading_1", "heading_2", "to_do", "quote", "bulleted_list_item"}
)

func completeProperty(partial string) []string {
	return completeStaticValues(partial, filterProperties, true)
}

func completeOperator(partial string) []string {
	return completeStaticValues(partial, filterOperators, false)
}

func completeBlockType(partial string) []string {
	return completeStaticValues(partial, snippetBlockTypes, false)
}

// completeStaticValues filters options by prefix, keeping their order.
func completeStaticValues(prefix string, options []string, foldCase bool) []string {
	matches := []string{}
	if foldCase {
		prefix = strings.ToLower(prefix)
	}
	for _, opt := range options {
		candidate := opt
		if foldCase {
			candidate = strings.ToLower(opt)
		}
		if strings.HasPrefix(candidate, prefix) {
			matches = append(matches, opt)
		}
	}
	return matches
}
