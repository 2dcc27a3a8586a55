//go:build !windows

package credentials

import "os"

func platformSources(names []string) []Source {
	return EnvSources(os.Getenv, names)
}
