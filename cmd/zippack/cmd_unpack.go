package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/ui"
	"github.com/zippack/zippack/internal/ui/progress"
	"github.com/zippack/zippack/internal/unpacker"
)

func newUnpackCommand() *cobra.Command {
	var opts UnpackOptions

	cmd := &cobra.Command{
		Use:   "unpack [flags] ARCHIVE",
		Short: "Extract a zip archive into a directory",
		Long: `
The "unpack" command extracts all entries of a zip archive into the target
directory, which is created if it does not exist. Existing files are
overwritten. Entries which would be written outside of the target directory
are rejected.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
		DisableAutoGenTag: true,
		RunE: func(_ *cobra.Command, args []string) error {
			term := newTerminal(globalOptions)
			return runUnpack(opts, globalOptions, term, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// UnpackOptions collects all options for the unpack command.
type UnpackOptions struct {
	Target string
}

func (opts *UnpackOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVarP(&opts.Target, "target", "t", ".", "`directory` to extract the archive to")
}

func runUnpack(opts UnpackOptions, gopts GlobalOptions, term ui.Terminal, args []string) error {
	if len(args) != 1 {
		return errors.Fatal("please specify exactly one archive to unpack")
	}
	if opts.Target == "" {
		return errors.Fatal("please specify a target directory")
	}

	u := unpacker.New()
	prog := newProgress(term, gopts, "Extracted", progress.ActionDirExtracted, progress.ActionFileExtracted)
	u.ReportTotal = prog.SetTotal
	u.CompleteItem = prog.CompleteItem

	if err := u.Unpack(args[0], opts.Target); err != nil {
		term.SetStatus(nil)
		return err
	}

	prog.Finish()
	return nil
}
