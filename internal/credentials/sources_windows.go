//go:build windows

package credentials

import (
	"golang.org/x/sys/windows/registry"
)

// platformSources reads only the user-scoped environment stored in
// HKCU\Environment, so values set with setx are seen without a new login.
func platformSources(names []string) []Source {
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		name := name
		sources = append(sources, Source{
			Name: "HKCU:" + name,
			Lookup: func() (string, error) {
				return readUserEnv(name)
			},
		})
	}
	return sources
}

func readUserEnv(name string) (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return value, nil
}
