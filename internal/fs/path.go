package fs

import (
	"path/filepath"
	"strings"

	"github.com/zippack/zippack/internal/errors"
)

// HasPathPrefix returns true if p is base or a path below base. Both paths
// are made absolute first, so relative and absolute paths can be compared.
// It assumes a file system which is case sensitive.
func HasPathPrefix(base, p string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return false
	}

	if filepath.VolumeName(absBase) != filepath.VolumeName(absP) {
		return false
	}

	rel, err := filepath.Rel(absBase, absP)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// JoinBelow joins the slash separated name to base. An error is returned if
// the resulting path is not located below base.
func JoinBelow(base, name string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(name))
	if !HasPathPrefix(base, target) {
		return "", errors.Errorf("path %q is outside of %v", name, base)
	}

	return target, nil
}
