package main

import (
	"os"
	"strconv"
	"time"

	"github.com/zippack/zippack/internal/ui"
	"github.com/zippack/zippack/internal/ui/progress"
)

// calculateProgressInterval returns the interval configured via
// ZIPPACK_PROGRESS_FPS or a default of 60 updates per second on an
// interactive terminal.
func calculateProgressInterval(show bool) time.Duration {
	interval := time.Second / 60
	fps, err := strconv.ParseFloat(os.Getenv("ZIPPACK_PROGRESS_FPS"), 64)
	if err == nil && fps > 0 {
		if fps > 60 {
			fps = 60
		}
		interval = time.Duration(float64(time.Second) / fps)
	} else if !show {
		interval = 0
	}
	return interval
}

// newProgress returns a progress tracker that prints to term.
func newProgress(term ui.Terminal, gopts GlobalOptions, verb string, dirAction, fileAction progress.ItemAction) *progress.Progress {
	interval := calculateProgressInterval(term.CanUpdateStatus())
	printer := progress.NewTextProgress(term, gopts.verbosity, verb)
	return progress.NewProgress(printer, interval, dirAction, fileAction)
}
