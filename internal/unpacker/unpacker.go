// Package unpacker extracts zip archives onto disk.
//
// Entries are processed in archive order. Names ending in a slash create
// directories, all other entries are written as files. Small entries are read
// with a single buffer of the entry size, larger ones are copied in chunks of
// a fixed size.
package unpacker

import (
	"io"
	"path/filepath"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/fs"
)

// Threshold is the entry size from which on the content is copied in chunks
// of ChunkSize bytes.
const Threshold = 1 << 20

// ChunkSize is the size of the buffer used for large entries.
const ChunkSize = 1 << 20

// Unpacker extracts archives.
type Unpacker struct {
	// ReportTotal is called once before the first entry is extracted with
	// the uncompressed size of all entries.
	ReportTotal func(size uint64)
	// CompleteItem is called after each entry has been extracted.
	CompleteItem func(item string, isDir bool, size uint64)

	buf []byte
}

// New returns a new Unpacker.
func New() *Unpacker {
	return &Unpacker{
		ReportTotal:  func(uint64) {},
		CompleteItem: func(string, bool, uint64) {},
	}
}

// Unpack extracts the archive at archivePath into destination.
func Unpack(archivePath, destination string) error {
	return New().Unpack(archivePath, destination)
}

// Unpack extracts the archive at archivePath into destination, which is
// created if it does not exist. An archive without entries is not an error
// and does not create destination. The first failing entry aborts the
// extraction, files written before are kept.
func (u *Unpacker) Unpack(archivePath, destination string) (err error) {
	debug.Log("unpack %v to %v", archivePath, destination)

	r, err := archive.Open(archivePath)
	if err != nil {
		return err
	}

	defer func() {
		cerr := r.Close()
		if err == nil {
			err = cerr
		}
	}()

	n := r.NumEntries()
	if n == 0 {
		debug.Log("archive %v is empty", archivePath)
		return nil
	}

	if err := fs.MkdirAll(destination, 0755); err != nil {
		return errors.Archivef(err, "failed to create directory on disk: %v", destination)
	}

	u.ReportTotal(r.TotalSize())

	for i := 0; i < n; i++ {
		if err := u.extractEntry(r, i, destination); err != nil {
			debug.Log("entry %d failed: %v", i, err)
			return err
		}
	}

	return nil
}

func (u *Unpacker) extractEntry(r *archive.Reader, i int, destination string) error {
	info, err := r.Stat(i)
	if err != nil {
		return err
	}
	if !info.Valid {
		return errors.Archivef(nil, "failed to get information about entry in archive: %d", i)
	}

	target, err := targetPath(destination, info.Name)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if !fs.IsDir(target) {
			if err := fs.MkdirAll(target, 0755); err != nil {
				return errors.Archivef(err, "failed to create directory on disk: %v", target)
			}
		}
		u.CompleteItem(info.Name, true, 0)
		return nil
	}

	rd, err := r.OpenEntry(i)
	if err != nil {
		return err
	}
	defer func() {
		_ = rd.Close()
	}()

	// archives written by other tools do not always contain a marker for
	// each directory
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Archivef(err, "failed to create directory on disk: %v", filepath.Dir(target))
	}

	f, err := fs.Create(target)
	if err != nil {
		return errors.Archivef(err, "failed to create file on disk: %v", info.Name)
	}

	if info.Size < Threshold {
		err = writeSmall(f, rd, info)
	} else {
		err = u.writeChunked(f, rd, info)
	}
	if err == nil {
		err = checkEnd(rd, info)
	}

	if cerr := f.Close(); cerr != nil && err == nil {
		err = errors.Archivef(cerr, "failed to write file on disk: %v", info.Name)
	}
	if err != nil {
		return err
	}

	if !info.Modified.IsZero() {
		if err := fs.Chtimes(target, info.Modified, info.Modified); err != nil {
			return errors.Archivef(err, "failed to set modification time on disk: %v", info.Name)
		}
	}

	u.CompleteItem(info.Name, false, info.Size)
	return nil
}

// writeSmall reads the whole entry with one buffer of exactly the entry size
// and writes it in one call.
func writeSmall(w io.Writer, rd io.Reader, info archive.EntryInfo) error {
	buf := make([]byte, info.Size)
	if _, err := io.ReadFull(rd, buf); err != nil {
		return errors.Archivef(err, "failed to read file in archive: %v", info.Name)
	}

	if _, err := w.Write(buf); err != nil {
		return errors.Archivef(err, "failed to write file on disk: %v", info.Name)
	}

	return nil
}

// writeChunked copies the entry with a buffer of ChunkSize bytes until the
// number of bytes given in the entry header has been read.
func (u *Unpacker) writeChunked(w io.Writer, rd io.Reader, info archive.EntryInfo) error {
	if u.buf == nil {
		u.buf = make([]byte, ChunkSize)
	}

	var total uint64
	for total < info.Size {
		want := uint64(len(u.buf))
		if rest := info.Size - total; rest < want {
			want = rest
		}

		n, err := rd.Read(u.buf[:want])
		if n == 0 {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return errors.Archivef(err, "failed to read file in archive: %v", info.Name)
		}
		total += uint64(n)

		if _, werr := w.Write(u.buf[:n]); werr != nil {
			return errors.Archivef(werr, "failed to write file on disk: %v", info.Name)
		}

		if err != nil && err != io.EOF {
			return errors.Archivef(err, "failed to read file in archive: %v", info.Name)
		}
	}

	return nil
}

// targetPath returns the path on disk for the entry name below destination.
// Names which would end up outside of destination are rejected.
func targetPath(destination, name string) (string, error) {
	target, err := fs.JoinBelow(destination, name)
	if err != nil {
		return "", errors.Archivef(err, "invalid entry name in archive: %q", name)
	}
	return target, nil
}

// checkEnd makes sure rd is at the end of the entry, which lets the zip
// reader verify the checksum of the content.
func checkEnd(rd io.Reader, info archive.EntryInfo) error {
	var buf [1]byte
	_, err := io.ReadAtLeast(rd, buf[:], 1)
	if err == io.EOF {
		return nil
	}
	if err == nil {
		err = errors.New("entry is larger than its header states")
	}
	return errors.Archivef(err, "failed to read file in archive: %v", info.Name)
}
