package archive

import (
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/fs"
)

// WriterOptions configure a Writer.
type WriterOptions struct {
	Method Method
	// Level is the compression level of Method, zero selects the default.
	Level   int
	Comment string
}

type pendingEntry struct {
	name   string
	source string // empty for directory markers
}

// Writer is an archive opened for writing.
type Writer struct {
	filename string
	f        *os.File
	fi       os.FileInfo
	zw       *zip.Writer
	opts     WriterOptions
	created  time.Time

	entries []pendingEntry
	names   map[string]struct{}
	closed  bool
}

// ErrInvalidHandle is returned when a nil or closed handle is used.
var ErrInvalidHandle = errors.Archive("invalid archive handle")

// Create creates the archive filename, truncating it if it already exists.
func Create(filename string, opts WriterOptions) (*Writer, error) {
	f, err := fs.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Archivef(err, "failed to create archive %v", filename)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Archivef(err, "failed to create archive %v", filename)
	}

	zw := zip.NewWriter(f)
	registerCompressors(zw, opts)

	if opts.Comment != "" {
		if err := zw.SetComment(opts.Comment); err != nil {
			_ = f.Close()
			return nil, errors.Archivef(err, "failed to create archive %v", filename)
		}
	}

	debug.Log("created archive %v, method %v", filename, opts.Method)

	return &Writer{
		filename: filename,
		f:        f,
		fi:       fi,
		zw:       zw,
		opts:     opts,
		created:  time.Now(),
		names:    make(map[string]struct{}),
	}, nil
}

func (w *Writer) check() error {
	if w == nil || w.closed {
		return ErrInvalidHandle
	}
	return nil
}

// Name returns the file name the archive is written to.
func (w *Writer) Name() string {
	return w.filename
}

// IsArchive reports whether fi describes the file the archive is written to.
// Such a file must not be added, since it grows while its content is copied.
func (w *Writer) IsArchive(fi os.FileInfo) bool {
	if w == nil || w.fi == nil || fi == nil {
		return false
	}
	return os.SameFile(w.fi, fi)
}

// Len returns the number of entries added so far.
func (w *Writer) Len() int {
	if w == nil {
		return 0
	}
	return len(w.entries)
}

func (w *Writer) add(e pendingEntry) error {
	if _, ok := w.names[e.name]; ok {
		return errors.Archivef(nil, "entry %v already exists in archive %v", e.name, w.filename)
	}
	w.names[e.name] = struct{}{}
	w.entries = append(w.entries, e)
	return nil
}

// AddDir adds a directory marker for name. A trailing slash is appended to
// the entry name.
func (w *Writer) AddDir(name string) error {
	if err := w.check(); err != nil {
		return err
	}

	name = CleanName(name)
	if name == "" {
		return errors.Archive("failed to add directory to archive: empty entry name")
	}

	debug.Log("add dir %v", name)
	return w.add(pendingEntry{name: name + "/"})
}

// AddFile adds the file source as entry name. The file is checked now but its
// content is read when the Writer is closed.
func (w *Writer) AddFile(source, name string) error {
	if err := w.check(); err != nil {
		return err
	}

	fi, err := fs.Stat(source)
	if err != nil {
		return errors.Archivef(err, "failed to create source for file %v", source)
	}
	if !fs.IsRegularFile(fi) {
		return errors.Archivef(nil, "failed to create source for file %v: not a regular file", source)
	}

	entry := CleanName(name)
	if entry == "" {
		return errors.Archivef(nil, "failed to add file to archive: %v as %q", source, name)
	}

	debug.Log("add file %v as %v", source, entry)
	return w.add(pendingEntry{name: entry, source: source})
}

// Close writes all queued entries and finalizes the archive. The underlying
// file is closed in any case.
func (w *Writer) Close() (err error) {
	if err := w.check(); err != nil {
		return err
	}
	w.closed = true

	defer func() {
		cerr := w.f.Close()
		if cerr != nil && err == nil {
			err = errors.Archivef(cerr, "failed to close archive %v", w.filename)
		}
	}()

	for _, e := range w.entries {
		if err := w.writeEntry(e); err != nil {
			return err
		}
	}

	if err := w.zw.Close(); err != nil {
		return errors.Archivef(err, "failed to finalize archive %v", w.filename)
	}

	debug.Log("closed archive %v with %d entries", w.filename, len(w.entries))
	return nil
}

func (w *Writer) writeEntry(e pendingEntry) error {
	if e.source == "" {
		hdr := &zip.FileHeader{
			Name:     e.name,
			Method:   zip.Store,
			Modified: w.created,
		}
		hdr.SetMode(os.ModeDir | 0755)

		_, err := w.zw.CreateHeader(hdr)
		if err != nil {
			return errors.Archivef(err, "failed to add directory to archive: %v", e.name)
		}
		return nil
	}

	f, err := fs.Open(e.source)
	if err != nil {
		return errors.Archivef(err, "failed to read source file %v", e.source)
	}
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return errors.Archivef(err, "failed to read source file %v", e.source)
	}

	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return errors.Archivef(err, "failed to add file to archive: %v as %v", e.source, e.name)
	}
	hdr.Name = e.name
	hdr.Method = w.opts.Method.zipMethod()

	dst, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return errors.Archivef(err, "failed to add file to archive: %v as %v", e.source, e.name)
	}

	if _, err := io.Copy(dst, f); err != nil {
		return errors.Archivef(err, "failed to add file to archive: %v as %v", e.source, e.name)
	}

	return nil
}
