package errors

import (
	"fmt"
)

// fatalError is printed to the user without a stack trace, after which the
// program exits with an error code.
type fatalError struct {
	msg   string
	cause error
}

func (e *fatalError) Error() string {
	return "Fatal: " + e.msg
}

func (e *fatalError) Unwrap() error {
	return e.cause
}

// IsFatal returns true if err or an error it wraps is a fatal error.
func IsFatal(err error) bool {
	var fatal *fatalError
	return As(err, &fatal)
}

// Fatal returns a fatal error with message s.
func Fatal(s string) error {
	return &fatalError{msg: s}
}

// Fatalf returns a fatal error with a formatted message. The last error found
// in data is kept as the cause.
func Fatalf(s string, data ...interface{}) error {
	fatal := &fatalError{msg: fmt.Sprintf(s, data...)}

	for i := len(data) - 1; i >= 0; i-- {
		if err, ok := data[i].(error); ok {
			fatal.cause = err
			break
		}
	}

	return fatal
}
