package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/ui"
)

func newListCommand() *cobra.Command {
	var opts ListOptions

	cmd := &cobra.Command{
		Use:   "list [flags] ARCHIVE",
		Short: "List the entries of a zip archive",
		Long: `
The "list" command prints the index, the uncompressed size and the name of
each entry of a zip archive in archive order.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
		DisableAutoGenTag: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runList(opts, globalOptions, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// ListOptions collects all options for the list command.
type ListOptions struct {
	Long bool
}

func (opts *ListOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.Long, "long", "l", false, "also print the compressed size, the method and the modification time")
}

// TimeFormat is the format used for all timestamps printed by zippack.
const TimeFormat = "2006-01-02 15:04:05"

func runList(opts ListOptions, gopts GlobalOptions, args []string) (err error) {
	if len(args) != 1 {
		return errors.Fatal("please specify exactly one archive to list")
	}

	r, err := archive.Open(args[0])
	if err != nil {
		return err
	}
	defer func() {
		cerr := r.Close()
		if err == nil {
			err = cerr
		}
	}()

	if c := r.Comment(); c != "" && gopts.verbosity >= 2 {
		Printf("comment: %s\n", ui.Quote(c))
	}

	var total uint64
	for i := 0; i < r.NumEntries(); i++ {
		info, err := r.Stat(i)
		if err != nil {
			return err
		}
		total += info.Size

		name := ui.Quote(info.Name)
		if opts.Long {
			Printf("%6d %12d %12d %-8s %s %s\n", info.Index, info.Size, info.CompressedSize,
				archive.MethodName(info.Method), info.Modified.Local().Format(TimeFormat), name)
			continue
		}
		Printf("%6d %12d %s\n", info.Index, info.Size, name)
	}

	Verbosef("%d entries, %s\n", r.NumEntries(), ui.FormatBytes(total))
	return nil
}
