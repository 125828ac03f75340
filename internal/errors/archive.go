package errors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ArchiveError is the single error kind returned by pack and unpack
// operations. Msg describes what failed, Err is the underlying cause (may be
// nil).
type ArchiveError struct {
	Msg string
	Err error
}

func (e *ArchiveError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Format prints the stack trace of the cause for %+v.
func (e *ArchiveError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && e.Err != nil {
			_, _ = fmt.Fprintf(s, "%s: %+v", e.Msg, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// Archive returns an ArchiveError without an underlying cause.
func Archive(msg string) error {
	return &ArchiveError{Msg: msg}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Archivef returns an ArchiveError for cause. If cause already is an
// ArchiveError, it is returned unchanged so that the message of the first
// failure is kept. A cause without a stack trace is annotated with one.
func Archivef(cause error, format string, args ...interface{}) error {
	if IsArchive(cause) {
		return cause
	}

	var st stackTracer
	if cause != nil && !As(cause, &st) {
		cause = WithStack(cause)
	}

	return &ArchiveError{
		Msg: fmt.Sprintf(format, args...),
		Err: cause,
	}
}

// IsArchive returns true if err is (or wraps) an ArchiveError.
func IsArchive(err error) bool {
	var ae *ArchiveError
	return As(err, &ae)
}
