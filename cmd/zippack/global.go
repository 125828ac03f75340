package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/zippack/zippack/internal/archive"
	"github.com/zippack/zippack/internal/errors"
	"github.com/zippack/zippack/internal/ui/termstatus"
)

var version = "0.1.0-dev (compiled manually)"

// GlobalOptions hold all global options for zippack.
type GlobalOptions struct {
	Quiet            bool
	Verbose          int
	Compression      archive.Method
	CompressionLevel int

	stdout io.Writer
	stderr io.Writer

	// verbosity is set as follows:
	//  0 means: don't print any messages except errors, this is used when --quiet is specified
	//  1 is the default: print essential messages
	//  2 means: print every entry, this is used when --verbose is specified
	verbosity uint
}

func (opts *GlobalOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not output comprehensive progress report")
	f.CountVarP(&opts.Verbose, "verbose", "v", "be verbose, print every entry")
	f.Var(&opts.Compression, "compression", "compression method for new archives, one of (deflate|store|zstd) (default: $ZIPPACK_COMPRESSION)")
	f.IntVar(&opts.CompressionLevel, "compression-level", 0, "compression `level` of the method, 0 selects the default of the method")

	comp := os.Getenv("ZIPPACK_COMPRESSION")
	if comp != "" {
		// ignore error as there's no good way to handle it
		_ = opts.Compression.Set(comp)
	}
}

func (opts *GlobalOptions) PreRun() error {
	// set verbosity, default is one
	opts.verbosity = 1
	if opts.Quiet && opts.Verbose > 0 {
		return errors.Fatal("--quiet and --verbose cannot be specified at the same time")
	}

	switch {
	case opts.Verbose > 0:
		opts.verbosity = 2
	case opts.Quiet:
		opts.verbosity = 0
	}

	return nil
}

// archiveOptions returns the options for archives created with opts.
func (opts GlobalOptions) archiveOptions(comment string) archive.WriterOptions {
	return archive.WriterOptions{
		Method:  opts.Compression,
		Level:   opts.CompressionLevel,
		Comment: comment,
	}
}

// newTerminal returns a terminal for the output of a command. Status lines
// are disabled with --quiet.
func newTerminal(opts GlobalOptions) *termstatus.Terminal {
	return termstatus.New(opts.stdout, opts.stderr, opts.Quiet)
}

var globalOptions = GlobalOptions{
	stdout: os.Stdout,
	stderr: os.Stderr,
}

// Printf writes the message to the configured stdout stream.
func Printf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stdout, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stdout: %v\n", err)
	}
}

// Verbosef calls Printf to write the message when the verbose flag is set.
func Verbosef(format string, args ...interface{}) {
	if globalOptions.verbosity >= 2 {
		Printf(format, args...)
	}
}

// Warnf writes the message to the configured stderr stream.
func Warnf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stderr, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stderr: %v\n", err)
	}
}
