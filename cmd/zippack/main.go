package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/zippack/zippack/internal/debug"
	"github.com/zippack/zippack/internal/errors"
)

func init() {
	// don't import `go.uber.org/automaxprocs` to disable the log output
	_, _ = maxprocs.Set()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zippack",
		Short: "Pack files and directories into zip archives and unpack them",
		Long: `
zippack creates zip archives from files and directory trees and extracts zip
archives into a directory.
`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return globalOptions.PreRun()
		},
	}

	globalOptions.AddFlags(cmd.PersistentFlags())

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newListCommand(),
		newPackCommand(),
		newUnpackCommand(),
		newVersionCommand(),
	)

	registerProfiling(cmd)

	return cmd
}

func main() {
	// install custom global logger into a buffer, if an error occurs
	// we can show the logs
	logBuffer := bytes.NewBuffer(nil)
	log.SetOutput(logBuffer)

	debug.Log("main %#v", os.Args)
	debug.Log("zippack %s compiled with %v on %v/%v",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	ctx := createGlobalContext()
	err := newRootCommand().ExecuteContext(ctx)
	if err == nil {
		err = ctx.Err()
	}

	var exitMessage string
	switch {
	case errors.IsFatal(err):
		exitMessage = err.Error()
	case errors.IsArchive(err):
		exitMessage = fmt.Sprintf("error: %v", err)
		if debug.Enabled() {
			exitMessage = fmt.Sprintf("%+v", err)
		}
	case err != nil:
		exitMessage = fmt.Sprintf("%+v", err)

		if logBuffer.Len() > 0 {
			exitMessage += "also, the following messages were logged by a library:\n"
			sc := bufio.NewScanner(logBuffer)
			for sc.Scan() {
				exitMessage += fmt.Sprintln(sc.Text())
			}
		}
	}

	var exitCode int
	switch {
	case err == nil:
		exitCode = 0
	case errors.Is(err, context.Canceled):
		exitCode = 130
	default:
		exitCode = 1
	}

	if exitCode != 0 {
		Warnf("%v\n", exitMessage)
	}
	Exit(exitCode)
}
