package archive

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// EntryInfo describes one entry of an archive as returned by Reader.Stat.
type EntryInfo struct {
	Index          int
	Name           string
	Size           uint64 // uncompressed
	CompressedSize uint64
	Modified       time.Time
	Mode           os.FileMode
	Method         uint16

	// Valid is false if the entry metadata could not be read completely.
	Valid bool
}

// IsDir returns true if the entry is a directory marker.
func (e EntryInfo) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// CleanName converts name to the form used inside an archive: host path
// separators become forward slashes, leading slashes and dot segments are
// removed and the result is NFC normalized UTF-8. An empty string is returned
// for names which do not contain any path element.
func CleanName(name string) string {
	name = filepath.ToSlash(name)
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	return norm.NFC.String(name)
}

// JoinName joins an entry name and a child name with a forward slash. If
// parent is empty, child is returned as is.
func JoinName(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "/" + child
}
