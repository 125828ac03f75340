//go:build !windows

package termstatus

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	posixMoveCursorHome = "\r"
	posixMoveCursorUp   = "\x1b[1A"
	posixClearLine      = "\x1b[2K"
)

// CanUpdateStatus returns true if status lines can be printed, the process
// output is not redirected to a file or pipe.
func CanUpdateStatus(fd uintptr) bool {
	if !term.IsTerminal(int(fd)) {
		return false
	}
	term := os.Getenv("TERM")
	if term == "" {
		return false
	}
	return term != "dumb"
}

// Width returns the number of columns of the terminal attached to fd, or
// zero if it cannot be determined.
func Width(fd uintptr) int {
	w, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0
	}
	return w
}

// clearLines will clear the current line and the n lines above.
// Afterwards the cursor is positioned at the start of the first cleared line.
func clearLines(wr io.Writer, _ uintptr, n int) {
	// clear current line
	_, err := wr.Write([]byte(posixMoveCursorHome + posixClearLine))
	if err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		return
	}

	for ; n > 0; n-- {
		// clear current line and move on line up
		_, err := wr.Write([]byte(posixMoveCursorUp + posixClearLine))
		if err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			return
		}
	}
}
