package debug

import "runtime"

// DumpStacktrace returns the stack traces of all goroutines.
func DumpStacktrace() string {
	for size := 128 * 1024; ; size *= 2 {
		buf := make([]byte, size)
		if n := runtime.Stack(buf, true); n < size {
			return string(buf[:n])
		}
	}
}
