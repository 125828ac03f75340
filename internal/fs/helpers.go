package fs

import (
	"os"
)

// IsRegularFile returns true if fi belongs to a normal file. If fi is nil,
// false is returned.
func IsRegularFile(fi os.FileInfo) bool {
	if fi == nil {
		return false
	}

	return fi.Mode()&(os.ModeType|os.ModeCharDevice) == 0
}

// Exists returns true if name can be stat'ed. Symlinks are followed.
func Exists(name string) bool {
	_, err := Stat(name)
	return err == nil
}

// IsDir returns true if name is a directory (following symlinks).
func IsDir(name string) bool {
	fi, err := Stat(name)
	return err == nil && fi.IsDir()
}
