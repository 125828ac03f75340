package progress

import (
	"fmt"
	"time"

	"github.com/zippack/zippack/internal/ui"
)

type term interface {
	Print(line string)
	SetStatus(lines []string)
}

type textPrinter struct {
	terminal  term
	verbosity uint
	verb      string
}

// NewTextProgress returns a Printer which writes to terminal. Single items
// are only printed with a verbosity of two or more, the summary is omitted
// with a verbosity of zero. verb is used in the summary, e.g. "Packed".
func NewTextProgress(terminal term, verbosity uint, verb string) Printer {
	return &textPrinter{
		terminal:  terminal,
		verbosity: verbosity,
		verb:      verb,
	}
}

func (t *textPrinter) Update(p State, duration time.Duration) {
	status := fmt.Sprintf("[%s] %d files %s, %d dirs",
		ui.FormatDuration(duration), p.FilesFinished, ui.FormatBytes(p.BytesFinished), p.DirsFinished)
	if p.TotalBytes > 0 {
		status = fmt.Sprintf("[%s] %s  %d files %s/%s, %d dirs",
			ui.FormatDuration(duration), ui.FormatPercent(p.BytesFinished, p.TotalBytes),
			p.FilesFinished, ui.FormatBytes(p.BytesFinished), ui.FormatBytes(p.TotalBytes), p.DirsFinished)
	}
	t.terminal.SetStatus([]string{status})
}

func (t *textPrinter) CompleteItem(action ItemAction, item string, size uint64) {
	if t.verbosity < 2 {
		return
	}

	var verb string
	switch action {
	case ActionDirAdded, ActionFileAdded:
		verb = "added"
	case ActionDirExtracted, ActionFileExtracted:
		verb = "extracted"
	default:
		verb = string(action)
	}

	if action == ActionDirAdded || action == ActionDirExtracted {
		t.terminal.Print(fmt.Sprintf("%-9v %v", verb, item))
	} else {
		t.terminal.Print(fmt.Sprintf("%-9v %v with size %v", verb, item, ui.FormatBytes(size)))
	}
}

func (t *textPrinter) Finish(p State, duration time.Duration) {
	t.terminal.SetStatus(nil)

	if t.verbosity == 0 {
		return
	}

	t.terminal.Print(fmt.Sprintf("Summary: %s %d files, %d dirs (%s) in %s",
		t.verb, p.FilesFinished, p.DirsFinished, ui.FormatBytes(p.BytesFinished), ui.FormatDuration(duration)))
}
