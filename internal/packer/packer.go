// Package packer adds files and directory trees to zip archives.
//
// Each source is stored below an entry name chosen by the caller. For a
// directory, that name is used for the directory itself and its children are
// stored below it. For a file, the file's base name is appended. Directories
// without any children are not stored in the archive.
package packer

import (
	"os"
	"path/filepath"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/fs"
)

// Source is a file or directory to add to an archive, together with the
// entry name (prefix) it is stored below.
type Source struct {
	Path   string
	Prefix string
}

// Task describes an archive to create from a list of sources.
type Task struct {
	Files       []Source
	Destination string
}

// Options configure a Packer.
type Options struct {
	Archive archive.WriterOptions
}

// Packer creates archives from files and directories.
type Packer struct {
	opts Options

	// CompleteItem is called for each entry added to an archive. For
	// directories the name has a trailing slash and size is zero.
	CompleteItem func(item string, isDir bool, size uint64)
}

// New returns a new Packer.
func New(opts Options) *Packer {
	return &Packer{
		opts:         opts,
		CompleteItem: func(string, bool, uint64) {},
	}
}

// Pack creates task.Destination (truncating an existing file) with the
// default options and adds all sources in order.
func Pack(task Task) error {
	return New(Options{}).Pack(task)
}

// Pack creates task.Destination (truncating an existing file) and adds all
// sources in order. The archive is closed before Pack returns, even if adding
// a source failed. A partially written archive is not removed.
func (p *Packer) Pack(task Task) (err error) {
	debug.Log("pack %d sources into %v", len(task.Files), task.Destination)

	w, err := archive.Create(task.Destination, p.opts.Archive)
	if err != nil {
		return err
	}

	defer func() {
		cerr := w.Close()
		if err == nil {
			err = cerr
		}
	}()

	for _, src := range task.Files {
		if err := p.AddTo(w, src.Path, src.Prefix); err != nil {
			debug.Log("adding %v failed: %v", src.Path, err)
			return err
		}
	}

	return nil
}

// PackPath creates the archive destination containing only source. It fails
// before the archive is created if source does not exist.
func (p *Packer) PackPath(source, prefix, destination string) error {
	if !fs.Exists(source) {
		return errors.Archivef(nil, "invalid file path: %v", source)
	}

	return p.Pack(Task{
		Files:       []Source{{Path: source, Prefix: prefix}},
		Destination: destination,
	})
}

// AddTo adds source to the archive w, which is owned by the caller and stays
// open.
func (p *Packer) AddTo(w *archive.Writer, source, prefix string) error {
	if w == nil {
		return archive.ErrInvalidHandle
	}

	fi, err := fs.Stat(source)
	if err != nil {
		return errors.Archivef(err, "invalid file path: %v", source)
	}

	prefix = archive.CleanName(prefix)
	if fi.IsDir() {
		return p.addDir(w, source, prefix, true)
	}

	return p.addFile(w, source, prefix)
}

// addDir adds dir and everything below it. For the root directory, name is
// the entry name of dir, otherwise it is the entry name of the parent.
func (p *Packer) addDir(w *archive.Writer, dir, name string, root bool) error {
	entry := name
	if !root {
		entry = archive.JoinName(name, filepath.Base(dir))
	}

	children, err := fs.ReadDir(dir)
	if err != nil {
		return errors.Archivef(err, "invalid folder path: %v", dir)
	}

	// an empty root name stores the children at the top level of the
	// archive, so there is no entry for the directory itself
	//
	// TODO: empty directories are dropped, decide whether they should be
	// stored as directory entries so that they survive unpacking
	if len(children) > 0 && entry != "" {
		if err := w.AddDir(entry); err != nil {
			return err
		}
		p.CompleteItem(archive.CleanName(entry)+"/", true, 0)
	}

	for _, child := range children {
		childPath := filepath.Join(dir, child.Name())

		if isDir(child, childPath) {
			err = p.addDir(w, childPath, entry, false)
		} else {
			err = p.addFile(w, childPath, entry)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// addFile adds file below the entry name parent.
// The archive itself is skipped when it is part of the tree being packed.
func (p *Packer) addFile(w *archive.Writer, file, parent string) error {
	var size uint64
	fi, err := fs.Stat(file)
	if err == nil {
		if w.IsArchive(fi) {
			debug.Log("skipping %v, it is the archive being written", file)
			return nil
		}
		size = uint64(fi.Size())
	}

	entry := archive.JoinName(parent, filepath.Base(file))
	if err := w.AddFile(file, entry); err != nil {
		return err
	}

	p.CompleteItem(archive.CleanName(entry), false, size)

	return nil
}

// isDir reports whether the directory entry is a directory, following
// symlinks.
func isDir(child os.DirEntry, path string) bool {
	if child.IsDir() {
		return true
	}
	if child.Type()&os.ModeSymlink != 0 {
		return fs.IsDir(path)
	}
	return false
}
