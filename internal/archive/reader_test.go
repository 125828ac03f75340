package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/zippack/zippack/internal/errors"
	rtest "github.com/zippack/zippack/internal/test"
)

func TestReader(t *testing.T) {
	tempdir := rtest.TempDir(t)
	src := filepath.Join(tempdir, "file1.txt")
	writeFile(t, src, []byte("hello"))

	filename := filepath.Join(tempdir, "out.zip")
	w, err := Create(filename, WriterOptions{Method: Zstd})
	rtest.OK(t, err)
	rtest.OK(t, w.AddDir("zipped"))
	rtest.OK(t, w.AddFile(src, "zipped/file1.txt"))
	rtest.OK(t, w.Close())

	r, err := Open(filename)
	rtest.OK(t, err)
	defer func() {
		rtest.OK(t, r.Close())
	}()

	rtest.Equals(t, filename, r.Name())
	rtest.Equals(t, 2, r.NumEntries())
	rtest.Equals(t, uint64(5), r.TotalSize())

	dir, err := r.Stat(0)
	rtest.OK(t, err)
	rtest.Assert(t, dir.Valid, "entry 0 should be valid")
	rtest.Assert(t, dir.IsDir(), "entry 0 should be a dir")
	rtest.Equals(t, "zipped/", dir.Name)

	file, err := r.Stat(1)
	rtest.OK(t, err)
	rtest.Assert(t, file.Valid, "entry 1 should be valid")
	rtest.Assert(t, !file.IsDir(), "entry 1 should not be a dir")
	rtest.Equals(t, "zipped/file1.txt", file.Name)
	rtest.Equals(t, uint64(5), file.Size)
	rtest.Equals(t, 1, file.Index)
	rtest.Equals(t, "zstd", MethodName(file.Method))

	rd, err := r.OpenEntry(1)
	rtest.OK(t, err)
	buf, err := io.ReadAll(rd)
	rtest.OK(t, err)
	rtest.OK(t, rd.Close())
	rtest.Equals(t, []byte("hello"), buf)

	_, err = r.Stat(2)
	rtest.Assert(t, errors.IsArchive(err), "expected archive error for index 2, got %v", err)
	_, err = r.OpenEntry(-1)
	rtest.Assert(t, errors.IsArchive(err), "expected archive error for index -1, got %v", err)
}

func TestOpenErrors(t *testing.T) {
	tempdir := rtest.TempDir(t)

	_, err := Open(filepath.Join(tempdir, "missing.zip"))
	rtest.Assert(t, errors.IsArchive(err), "missing archive: expected archive error, got %v", err)

	garbage := filepath.Join(tempdir, "garbage.zip")
	rtest.OK(t, os.WriteFile(garbage, rtest.Random(1, 4096), 0644))
	_, err = Open(garbage)
	rtest.Assert(t, errors.IsArchive(err), "garbage archive: expected archive error, got %v", err)
}

func TestReaderClosed(t *testing.T) {
	tempdir := rtest.TempDir(t)
	filename := filepath.Join(tempdir, "empty.zip")
	w, err := Create(filename, WriterOptions{})
	rtest.OK(t, err)
	rtest.OK(t, w.Close())

	r, err := Open(filename)
	rtest.OK(t, err)
	rtest.Equals(t, 0, r.NumEntries())
	rtest.OK(t, r.Close())

	err = r.Close()
	rtest.Assert(t, errors.IsArchive(err), "double close: expected archive error, got %v", err)
	_, err = r.Stat(0)
	rtest.Assert(t, errors.IsArchive(err), "stat after close: expected archive error, got %v", err)
	rtest.Equals(t, 0, r.NumEntries())
	rtest.Equals(t, uint64(0), r.TotalSize())
}
