//go:build !windows
// +build !windows

package fs

// fixpath returns an absolute path on windows, so long file names can be
// opened.
func fixpath(name string) string {
	return name
}
