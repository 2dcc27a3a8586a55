// Package credentials locates the Notion integration token.
//
// A token is looked up in an ordered list of sources; the first source yielding a
// non-blank value wins. Which sources are consulted depends on the host platform.
package credentials

import (
	"fmt"
	"strings"
)

// AcceptedNames are the variable names checked, in priority order.
var AcceptedNames = []string{
	"NOTION_API_KEY",
	"GEMINI_NOTION_API_KEY",
	"NOTION_TOKEN",
	"NOTION_SECRET",
}

// Credential is a resolved token and the name of the source that supplied it.
type Credential struct {
	Key    string
	Source string
}

// Source is a single lookup strategy. Lookup returns an empty string when the
// source has no value; errors are treated the same way by Resolve.
type Source struct {
	Name   string
	Lookup func() (string, error)
}

// Resolve walks sources in order and returns the first non-blank, trimmed value.
func Resolve(sources []Source) (Credential, bool) {
	for _, src := range sources {
		if src.Lookup == nil {
			continue
		}
		value, err := src.Lookup()
		if err != nil {
			continue
		}
		if key := strings.TrimSpace(value); key != "" {
			return Credential{Key: key, Source: src.Name}, true
		}
	}
	return Credential{}, false
}

// DefaultSources returns the platform's variable sources followed by the OS keyring.
func DefaultSources() []Source {
	sources := platformSources(AcceptedNames)
	return append(sources, KeyringSource())
}

// EnvSources reads the given names from the process environment using getenv.
func EnvSources(getenv func(string) string, names []string) []Source {
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		name := name
		sources = append(sources, Source{
			Name: name,
			Lookup: func() (string, error) {
				return getenv(name), nil
			},
		})
	}
	return sources
}

// MissingMessage is the diagnostic printed when no source yields a token.
func MissingMessage() string {
	return fmt.Sprintf("No Notion API key found. Set one of: %s.", strings.Join(AcceptedNames, ", "))
}
