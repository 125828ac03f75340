package test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// TestDir describes a directory structure to create for a test. Values are
// either TestFile or TestDir.
type TestDir map[string]interface{}

// TestFile describes a file with the given content.
type TestFile struct {
	Content string
}

// CreateFiles creates the structure described by dir below target.
func CreateFiles(t testing.TB, target string, dir TestDir) {
	t.Helper()
	for name, item := range dir {
		targetPath := filepath.Join(target, name)

		switch it := item.(type) {
		case TestFile:
			OK(t, os.WriteFile(targetPath, []byte(it.Content), 0644))
		case TestDir:
			OK(t, os.Mkdir(targetPath, 0755))
			CreateFiles(t, targetPath, it)
		default:
			t.Fatalf("unknown item %T in test dir", item)
		}
	}
}

// Fingerprint walks dir and returns a map from the slash separated relative
// path to an xxhash digest of the contents for each regular file. Directories
// are recorded with a zero digest and a trailing slash.
func Fingerprint(t testing.TB, dir string) map[string]uint64 {
	t.Helper()
	result := make(map[string]uint64)

	err := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if fi.IsDir() {
			result[rel+"/"] = 0
			return nil
		}

		buf, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result[rel] = xxhash.Sum64(buf)
		return nil
	})
	OK(t, err)

	return result
}

// HashFile returns the xxhash digest of the file at path.
func HashFile(t testing.TB, path string) uint64 {
	t.Helper()
	buf, err := os.ReadFile(path)
	OK(t, err)
	return xxhash.Sum64(buf)
}

// SortedNames returns the keys of m sorted.
func SortedNames(m map[string]uint64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithPrefix returns a copy of m containing only the names below prefix, with
// prefix removed.
func WithPrefix(m map[string]uint64, prefix string) map[string]uint64 {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	result := make(map[string]uint64)
	for name, sum := range m {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			result[rest] = sum
		}
	}
	return result
}
