// Package termstatus writes messages and a status display to the terminal.
// Status lines are only shown if the output is an interactive terminal.
package termstatus

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/zippack/zippack/internal/ui"
)

var _ ui.Terminal = &Terminal{}

// Terminal writes messages to wr and errWriter. All methods are safe for
// concurrent use.
type Terminal struct {
	m sync.Mutex

	wr              io.Writer
	fd              uintptr
	errWriter       io.Writer
	canUpdateStatus bool

	// lines of the status display currently on screen
	status []string
}

type fder interface {
	Fd() uintptr
}

// New returns a new Terminal for wr and errWriter. If disableStatus is true
// or wr is not an interactive terminal, status lines are discarded.
func New(wr io.Writer, errWriter io.Writer, disableStatus bool) *Terminal {
	t := &Terminal{
		wr:        wr,
		errWriter: errWriter,
	}

	if disableStatus {
		return t
	}

	if d, ok := wr.(fder); ok && CanUpdateStatus(d.Fd()) {
		t.fd = d.Fd()
		t.canUpdateStatus = true
	}

	return t
}

// CanUpdateStatus return whether the status output is updated in place.
func (t *Terminal) CanUpdateStatus() bool {
	return t.canUpdateStatus
}

// Print writes a line to the terminal.
func (t *Terminal) Print(line string) {
	t.print(line, false)
}

// Error writes an error to the terminal.
func (t *Terminal) Error(line string) {
	t.print(line, true)
}

func (t *Terminal) print(line string, isErr bool) {
	// make sure the line ends with a line break
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line += "\n"
	}

	dst := t.wr
	if isErr {
		dst = t.errWriter
	}

	t.m.Lock()
	defer t.m.Unlock()

	t.clearStatus()
	write(dst, line)
	t.writeStatus()
}

// SetStatus updates the status lines.
// The lines should not contain newlines; this method adds them.
// Pass nil or an empty array to remove the status lines.
func (t *Terminal) SetStatus(lines []string) {
	if !t.canUpdateStatus {
		return
	}

	width := Width(t.fd)
	if width <= 0 {
		// use 80 columns by default
		width = 80
	}

	lines = sanitizeLines(append([]string(nil), lines...), width)

	t.m.Lock()
	defer t.m.Unlock()

	t.clearStatus()
	t.status = lines
	t.writeStatus()
}

func (t *Terminal) clearStatus() {
	if len(t.status) == 0 {
		return
	}
	clearLines(t.wr, t.fd, len(t.status)-1)
}

func (t *Terminal) writeStatus() {
	if len(t.status) == 0 {
		return
	}
	write(t.wr, strings.Join(t.status, ""))
}

func write(wr io.Writer, s string) {
	if _, err := io.WriteString(wr, s); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
	}
}

func sanitizeLines(lines []string, width int) []string {
	// Sanitize lines and truncate them if they're too long.
	for i, line := range lines {
		line = ui.Quote(line)
		if width > 0 {
			line = ui.Truncate(line, width-2)
		}
		if i < len(lines)-1 { // Last line gets no line break.
			line += "\n"
		}
		lines[i] = line
	}
	return lines
}
