//go:build windows

package termstatus

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// CanUpdateStatus returns true if status lines can be printed. Redirected
// output never shows status lines.
func CanUpdateStatus(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Width returns the number of columns of the console attached to fd, or
// zero if it cannot be determined.
func Width(fd uintptr) int {
	w, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0
	}
	return w
}

// clearLines overwrites the current line with blanks and moves the cursor to
// its start. Lines above are left alone, the console only gets a single
// status line.
func clearLines(wr io.Writer, fd uintptr, _ int) {
	w := Width(fd)
	if w <= 0 {
		w = 80
	}

	_, err := io.WriteString(wr, "\r"+strings.Repeat(" ", w-1)+"\r")
	if err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
	}
}
