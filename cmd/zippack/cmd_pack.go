package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/fs"
	"github.com/zippack/zippack/internal/packer"
	"github.com/zippack/zippack/internal/ui"
	"github.com/zippack/zippack/internal/ui/progress"
)

func newPackCommand() *cobra.Command {
	var opts PackOptions

	cmd := &cobra.Command{
		Use:   "pack [flags] -o ARCHIVE SOURCE[=PREFIX] [SOURCE[=PREFIX]...]",
		Short: "Create a zip archive from files and directories",
		Long: `
The "pack" command creates a new zip archive, an existing file is overwritten.
Each source is a file or a directory. A directory is stored with all files
below it. Directories which do not contain anything are not stored.

PREFIX is the entry name the source is stored below. For a directory it
defaults to the name of the directory, for a file it defaults to the archive
root. An empty PREFIX ("dir=") stores the contents of a directory at the
archive root.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
		DisableAutoGenTag: true,
		RunE: func(_ *cobra.Command, args []string) error {
			term := newTerminal(globalOptions)
			return runPack(opts, globalOptions, term, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// PackOptions collects all options for the pack command.
type PackOptions struct {
	Output  string
	Comment string
}

func (opts *PackOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVarP(&opts.Output, "output", "o", "", "write the archive to `file`")
	f.StringVar(&opts.Comment, "comment", "", "set the archive `comment`")
}

// parseSource splits arg into a path and an entry name prefix. If arg names
// an existing file or directory, it is used as the path even if it contains
// an equals sign.
func parseSource(arg string) (packer.Source, error) {
	if arg == "" {
		return packer.Source{}, errors.Fatal("empty source")
	}

	if !fs.Exists(arg) {
		if path, prefix, ok := strings.Cut(arg, "="); ok {
			if path == "" {
				return packer.Source{}, errors.Fatalf("invalid source %q: empty path", arg)
			}
			return packer.Source{Path: path, Prefix: prefix}, nil
		}
	}

	return packer.Source{Path: arg, Prefix: defaultPrefix(arg)}, nil
}

// defaultPrefix returns the name of a directory and an empty prefix for
// everything else, including paths which do not exist.
func defaultPrefix(path string) string {
	if !fs.IsDir(path) {
		return ""
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}

	return archive.CleanName(filepath.Base(abs))
}

func runPack(opts PackOptions, gopts GlobalOptions, term ui.Terminal, args []string) error {
	if opts.Output == "" {
		return errors.Fatal("no archive given, use --output")
	}
	if len(args) == 0 {
		return errors.Fatal("nothing to pack, please specify at least one source")
	}

	task := packer.Task{Destination: opts.Output}
	for _, arg := range args {
		src, err := parseSource(arg)
		if err != nil {
			return err
		}
		debug.Log("source %v with prefix %q", src.Path, src.Prefix)
		task.Files = append(task.Files, src)
	}

	p := packer.New(packer.Options{Archive: gopts.archiveOptions(opts.Comment)})
	prog := newProgress(term, gopts, "Packed", progress.ActionDirAdded, progress.ActionFileAdded)
	p.CompleteItem = prog.CompleteItem

	if err := p.Pack(task); err != nil {
		term.SetStatus(nil)
		return err
	}

	prog.Finish()
	return nil
}
