//go:build debug || profile

package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zippack/zippack/internal/errors"
)

type ProfileOptions struct {
	listen    string
	memPath   string
	cpuPath   string
	tracePath string
	blockPath string
}

var profiler interface {
	Stop()
}

func registerProfiling(cmd *cobra.Command) {
	var opts ProfileOptions

	origPreRun := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if origPreRun != nil {
			if err := origPreRun(c, args); err != nil {
				return err
			}
		}
		return opts.startProfiler()
	}

	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if profiler != nil {
			profiler.Stop()
		}
	}

	opts.AddFlags(cmd.PersistentFlags())
}

func (opts *ProfileOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&opts.listen, "listen-profile", "", "listen on this `address:port` for memory profiling")
	f.StringVar(&opts.memPath, "mem-profile", "", "write memory profile to `dir`")
	f.StringVar(&opts.cpuPath, "cpu-profile", "", "write cpu profile to `dir`")
	f.StringVar(&opts.tracePath, "trace-profile", "", "write trace to `dir`")
	f.StringVar(&opts.blockPath, "block-profile", "", "write block profile to `dir`")
}

func (opts *ProfileOptions) startProfiler() error {
	if opts.listen != "" {
		fmt.Fprintf(os.Stderr, "running profile HTTP server on %v\n", opts.listen)
		go func() {
			err := http.ListenAndServe(opts.listen, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "profile HTTP server listen failed: %v\n", err)
			}
		}()
	}

	profilesEnabled := 0
	if opts.memPath != "" {
		profilesEnabled++
	}
	if opts.cpuPath != "" {
		profilesEnabled++
	}
	if opts.tracePath != "" {
		profilesEnabled++
	}
	if opts.blockPath != "" {
		profilesEnabled++
	}

	if profilesEnabled > 1 {
		return errors.Fatal("only one profile (memory, CPU, trace, or block) may be activated at the same time")
	}

	if opts.memPath != "" {
		profiler = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.MemProfile, profile.ProfilePath(opts.memPath))
	} else if opts.cpuPath != "" {
		profiler = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.CPUProfile, profile.ProfilePath(opts.cpuPath))
	} else if opts.tracePath != "" {
		profiler = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.TraceProfile, profile.ProfilePath(opts.tracePath))
	} else if opts.blockPath != "" {
		profiler = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.BlockProfile, profile.ProfilePath(opts.blockPath))
	}

	return nil
}
