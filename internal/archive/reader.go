package archive

import (
	"io"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/fs"
)

// Reader is an archive opened for reading.
type Reader struct {
	filename string
	f        *os.File
	zr       *zip.Reader
}

// Open opens the archive filename read-only.
func Open(filename string) (*Reader, error) {
	if !fs.Exists(filename) {
		return nil, errors.Archivef(nil, "archive not found: %v", filename)
	}

	f, err := fs.Open(filename)
	if err != nil {
		return nil, errors.Archivef(err, "failed to open archive %v", filename)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Archivef(err, "failed to open archive %v", filename)
	}

	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		_ = f.Close()
		return nil, errors.Archivef(err, "failed to open archive %v", filename)
	}
	registerDecompressors(zr)

	debug.Log("opened archive %v, %d entries", filename, len(zr.File))

	return &Reader{filename: filename, f: f, zr: zr}, nil
}

func (r *Reader) check() error {
	if r == nil || r.zr == nil {
		return ErrInvalidHandle
	}
	return nil
}

// Name returns the file name of the archive.
func (r *Reader) Name() string {
	return r.filename
}

// NumEntries returns the number of entries in the archive.
func (r *Reader) NumEntries() int {
	if r.check() != nil {
		return 0
	}
	return len(r.zr.File)
}

// TotalSize returns the sum of the uncompressed sizes of all entries as
// stated in the archive.
func (r *Reader) TotalSize() uint64 {
	if r.check() != nil {
		return 0
	}

	var total uint64
	for _, f := range r.zr.File {
		total += f.UncompressedSize64
	}
	return total
}

// Comment returns the archive comment.
func (r *Reader) Comment() string {
	if r.check() != nil {
		return ""
	}
	return r.zr.Comment
}

func (r *Reader) file(i int) (*zip.File, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(r.zr.File) {
		return nil, errors.Archivef(nil, "entry index %d out of range", i)
	}
	return r.zr.File[i], nil
}

// Stat returns the metadata of entry i.
func (r *Reader) Stat(i int) (EntryInfo, error) {
	f, err := r.file(i)
	if err != nil {
		return EntryInfo{}, err
	}

	return EntryInfo{
		Index:          i,
		Name:           f.Name,
		Size:           f.UncompressedSize64,
		CompressedSize: f.CompressedSize64,
		Modified:       f.Modified,
		Mode:           f.Mode(),
		Method:         f.Method,
		Valid:          f.Name != "",
	}, nil
}

// OpenEntry returns a stream of the uncompressed content of entry i. The
// caller must close it.
func (r *Reader) OpenEntry(i int) (io.ReadCloser, error) {
	f, err := r.file(i)
	if err != nil {
		return nil, err
	}

	rd, err := f.Open()
	if err != nil {
		return nil, errors.Archivef(err, "failed to open file in archive: %v", f.Name)
	}
	return rd, nil
}

// Close releases the archive file.
func (r *Reader) Close() error {
	if err := r.check(); err != nil {
		return err
	}

	err := r.f.Close()
	r.zr = nil
	if err != nil {
		return errors.Archivef(err, "failed to close archive %v", r.filename)
	}
	return nil
}
