package fs

import (
	"path/filepath"
	"strings"
)

// fixpath returns an absolute path on windows, so long file names can be
// opened.
func fixpath(name string) string {
	abspath, err := filepath.Abs(name)
	if err != nil {
		return name
	}

	switch {
	case strings.HasPrefix(abspath, `\\?\`):
		return abspath
	case strings.HasPrefix(abspath, `\\`):
		return strings.Replace(abspath, `\\`, `\\?\UNC\`, 1)
	default:
		return `\\?\` + abspath
	}
}
