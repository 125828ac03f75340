package packer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/errors"
	rtest "github.com/zippack/zippack/internal/test"
)

// entryNames returns the names of all entries in the archive filename.
func entryNames(t testing.TB, filename string) []string {
	t.Helper()

	r, err := archive.Open(filename)
	rtest.OK(t, err)
	defer func() {
		rtest.OK(t, r.Close())
	}()

	names := []string{}
	for i := 0; i < r.NumEntries(); i++ {
		fi, err := r.Stat(i)
		rtest.OK(t, err)
		names = append(names, fi.Name)
	}
	return names
}

func checkEntries(t testing.TB, filename string, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, entryNames(t, filename)); diff != "" {
		t.Errorf("unexpected entries in archive (-want +got):\n%s", diff)
	}
}

func TestPack(t *testing.T) {
	var tests = []struct {
		name  string
		src   rtest.TestDir
		files func(tempdir string) []Source
		want  []string
	}{
		{
			name: "dir-with-prefix",
			src: rtest.TestDir{
				"dirA": rtest.TestDir{
					"file1.txt": rtest.TestFile{Content: "hello"},
					"sub": rtest.TestDir{
						"file2.txt": rtest.TestFile{Content: "world"},
					},
				},
			},
			files: func(tempdir string) []Source {
				return []Source{{Path: filepath.Join(tempdir, "dirA"), Prefix: "zipped"}}
			},
			want: []string{"zipped/", "zipped/file1.txt", "zipped/sub/", "zipped/sub/file2.txt"},
		},
		{
			name: "nested-prefix",
			src: rtest.TestDir{
				"dirA": rtest.TestDir{
					"file1.txt": rtest.TestFile{Content: "hello"},
				},
			},
			files: func(tempdir string) []Source {
				return []Source{{Path: filepath.Join(tempdir, "dirA"), Prefix: "/a/b/"}}
			},
			want: []string{"a/b/", "a/b/file1.txt"},
		},
		{
			name: "dir-without-prefix",
			src: rtest.TestDir{
				"dirA": rtest.TestDir{
					"file1.txt": rtest.TestFile{Content: "hello"},
					"sub": rtest.TestDir{
						"file2.txt": rtest.TestFile{Content: "world"},
					},
				},
			},
			files: func(tempdir string) []Source {
				return []Source{{Path: filepath.Join(tempdir, "dirA"), Prefix: ""}}
			},
			want: []string{"file1.txt", "sub/", "sub/file2.txt"},
		},
		{
			name: "file-with-prefix",
			src: rtest.TestDir{
				"file1.txt": rtest.TestFile{Content: "hello"},
			},
			files: func(tempdir string) []Source {
				return []Source{{Path: filepath.Join(tempdir, "file1.txt"), Prefix: "docs"}}
			},
			want: []string{"docs/file1.txt"},
		},
		{
			name: "file-without-prefix",
			src: rtest.TestDir{
				"file1.txt": rtest.TestFile{Content: "hello"},
			},
			files: func(tempdir string) []Source {
				return []Source{{Path: filepath.Join(tempdir, "file1.txt"), Prefix: ""}}
			},
			want: []string{"file1.txt"},
		},
		{
			name: "empty-dirs-are-skipped",
			src: rtest.TestDir{
				"dirA": rtest.TestDir{
					"empty": rtest.TestDir{},
					"sub": rtest.TestDir{
						"empty": rtest.TestDir{},
					},
				},
				"emptyroot": rtest.TestDir{},
			},
			files: func(tempdir string) []Source {
				return []Source{
					{Path: filepath.Join(tempdir, "dirA"), Prefix: "a"},
					{Path: filepath.Join(tempdir, "emptyroot"), Prefix: "e"},
				}
			},
			// sub only contains an empty directory, so it is not empty
			// itself and gets an entry
			want: []string{"a/", "a/sub/"},
		},
		{
			name: "multiple-sources-in-order",
			src: rtest.TestDir{
				"dirA": rtest.TestDir{
					"x": rtest.TestFile{Content: "x"},
				},
				"dirB": rtest.TestDir{
					"y": rtest.TestFile{Content: "y"},
				},
				"file": rtest.TestFile{Content: "file"},
			},
			files: func(tempdir string) []Source {
				return []Source{
					{Path: filepath.Join(tempdir, "dirB"), Prefix: "second"},
					{Path: filepath.Join(tempdir, "file"), Prefix: ""},
					{Path: filepath.Join(tempdir, "dirA"), Prefix: "first"},
				}
			},
			want: []string{"second/", "second/y", "file", "first/", "first/x"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tempdir := rtest.TempDir(t)
			src := filepath.Join(tempdir, "src")
			rtest.OK(t, os.Mkdir(src, 0755))
			rtest.CreateFiles(t, src, test.src)

			filename := filepath.Join(tempdir, "out.zip")
			err := Pack(Task{
				Files:       test.files(src),
				Destination: filename,
			})
			rtest.OK(t, err)

			checkEntries(t, filename, test.want)
		})
	}
}

func TestPackMissingSource(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"file1.txt": rtest.TestFile{Content: "hello"},
	})

	filename := filepath.Join(tempdir, "out.zip")
	err := Pack(Task{
		Files: []Source{
			{Path: filepath.Join(tempdir, "file1.txt"), Prefix: "ok"},
			{Path: filepath.Join(tempdir, "missing"), Prefix: "missing"},
			{Path: filepath.Join(tempdir, "file1.txt"), Prefix: "never"},
		},
		Destination: filename,
	})
	rtest.Assert(t, errors.IsArchive(err), "expected archive error, got %v", err)
	rtest.Assert(t, strings.Contains(fmt.Sprintf("%+v", err), "packer.(*Packer).AddTo"),
		"stack trace missing in %+v", err)

	// the archive has been closed and finalized with the entries added
	// before the failure
	checkEntries(t, filename, []string{"ok/file1.txt"})
}

func TestPackSkipsOwnArchive(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"file1.txt": rtest.TestFile{Content: "hello"},
		"sub": rtest.TestDir{
			"file2.txt": rtest.TestFile{Content: "world"},
		},
	})
	filename := filepath.Join(tempdir, "out.zip")

	// an existing archive from an earlier run is truncated and skipped as well
	rtest.OK(t, os.WriteFile(filename, []byte("old archive"), 0644))

	p := New(Options{Archive: archive.WriterOptions{Method: archive.Store}})
	var items []string
	p.CompleteItem = func(item string, _ bool, _ uint64) {
		items = append(items, item)
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Pack(Task{
			Files:       []Source{{Path: tempdir, Prefix: "root"}},
			Destination: filename,
		})
	}()

	select {
	case err := <-done:
		rtest.OK(t, err)
	case <-time.After(30 * time.Second):
		var size int64
		if fi, err := os.Stat(filename); err == nil {
			size = fi.Size()
		}
		t.Fatalf("pack did not finish, archive has %d bytes", size)
	}

	want := []string{"root/", "root/file1.txt", "root/sub/", "root/sub/file2.txt"}
	checkEntries(t, filename, want)
	rtest.Equals(t, want, items)

	// a single file source which is the archive itself is skipped, too
	rtest.OK(t, p.Pack(Task{
		Files:       []Source{{Path: filename, Prefix: "self"}},
		Destination: filename,
	}))
	checkEntries(t, filename, []string{})
}

func TestPackDestinationFails(t *testing.T) {
	tempdir := rtest.TempDir(t)
	err := Pack(Task{
		Destination: filepath.Join(tempdir, "missing", "out.zip"),
	})
	rtest.Assert(t, errors.IsArchive(err), "expected archive error, got %v", err)
}

func TestPackTruncatesExisting(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"a": rtest.TestFile{Content: "a"},
		"b": rtest.TestFile{Content: "b"},
	})
	filename := filepath.Join(tempdir, "out.zip")

	rtest.OK(t, Pack(Task{
		Files:       []Source{{Path: filepath.Join(tempdir, "a")}},
		Destination: filename,
	}))
	rtest.OK(t, Pack(Task{
		Files:       []Source{{Path: filepath.Join(tempdir, "b")}},
		Destination: filename,
	}))

	checkEntries(t, filename, []string{"b"})
}

func TestPackDuplicateEntries(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"file1.txt": rtest.TestFile{Content: "hello"},
	})
	src := filepath.Join(tempdir, "file1.txt")

	err := Pack(Task{
		Files:       []Source{{Path: src, Prefix: "x"}, {Path: src, Prefix: "x"}},
		Destination: filepath.Join(tempdir, "out.zip"),
	})
	rtest.Assert(t, errors.IsArchive(err), "expected archive error, got %v", err)
}

func TestPackPath(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"dirA": rtest.TestDir{
			"file1.txt": rtest.TestFile{Content: "hello"},
		},
	})

	p := New(Options{Archive: archive.WriterOptions{Method: archive.Store}})

	filename := filepath.Join(tempdir, "out.zip")
	rtest.OK(t, p.PackPath(filepath.Join(tempdir, "dirA"), "zipped", filename))
	checkEntries(t, filename, []string{"zipped/", "zipped/file1.txt"})

	missing := filepath.Join(tempdir, "missing.zip")
	err := p.PackPath(filepath.Join(tempdir, "missing"), "x", missing)
	rtest.Assert(t, errors.IsArchive(err), "expected archive error, got %v", err)

	_, err = os.Stat(missing)
	rtest.Assert(t, errors.Is(err, os.ErrNotExist), "archive should not have been created, stat returned %v", err)
}

func TestAddTo(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"dirA": rtest.TestDir{
			"file1.txt": rtest.TestFile{Content: "hello"},
		},
		"file2.txt": rtest.TestFile{Content: "world"},
	})

	filename := filepath.Join(tempdir, "out.zip")
	w, err := archive.Create(filename, archive.WriterOptions{})
	rtest.OK(t, err)

	p := New(Options{})
	rtest.OK(t, p.AddTo(w, filepath.Join(tempdir, "dirA"), "one"))
	rtest.OK(t, p.AddTo(w, filepath.Join(tempdir, "file2.txt"), "two"))

	// AddTo does not close the archive
	rtest.Equals(t, 3, w.Len())
	rtest.OK(t, w.Close())

	checkEntries(t, filename, []string{"one/", "one/file1.txt", "two/file2.txt"})

	err = p.AddTo(nil, filepath.Join(tempdir, "file2.txt"), "x")
	rtest.Assert(t, errors.Is(err, archive.ErrInvalidHandle), "expected invalid handle, got %v", err)
}

func TestCompleteItem(t *testing.T) {
	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"dirA": rtest.TestDir{
			"file1.txt": rtest.TestFile{Content: "hello"},
			"sub": rtest.TestDir{
				"file2.txt": rtest.TestFile{Content: "world!"},
			},
		},
	})

	type item struct {
		Name  string
		IsDir bool
		Size  uint64
	}
	var items []item

	p := New(Options{})
	p.CompleteItem = func(name string, isDir bool, size uint64) {
		items = append(items, item{name, isDir, size})
	}

	rtest.OK(t, p.Pack(Task{
		Files:       []Source{{Path: filepath.Join(tempdir, "dirA"), Prefix: "zipped"}},
		Destination: filepath.Join(tempdir, "out.zip"),
	}))

	want := []item{
		{"zipped/", true, 0},
		{"zipped/file1.txt", false, 5},
		{"zipped/sub/", true, 0},
		{"zipped/sub/file2.txt", false, 6},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("unexpected items (-want +got):\n%s", diff)
	}
}

func TestPackFollowsDirSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need special privileges on windows")
	}

	tempdir := rtest.TempDir(t)
	rtest.CreateFiles(t, tempdir, rtest.TestDir{
		"target": rtest.TestDir{
			"file": rtest.TestFile{Content: "content"},
		},
		"dirA": rtest.TestDir{},
	})
	rtest.OK(t, os.Symlink(filepath.Join(tempdir, "target"), filepath.Join(tempdir, "dirA", "link")))

	filename := filepath.Join(tempdir, "out.zip")
	rtest.OK(t, Pack(Task{
		Files:       []Source{{Path: filepath.Join(tempdir, "dirA"), Prefix: "a"}},
		Destination: filename,
	}))

	checkEntries(t, filename, []string{"a/", "a/link/", "a/link/file"})
}
