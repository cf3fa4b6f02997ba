package util

import (
	"fmt"
	"os"
)

// Exit codes shared by the k and kctx binaries.
const (
	// ExitOK indicates successful execution
	ExitOK = 0

	// ExitInvalidInput indicates a bad argument or a malformed config file
	ExitInvalidInput = 2

	// ExitRuntimeError indicates a kubectl invocation failure or unparseable output
	ExitRuntimeError = 3
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError prints an error message to stderr and exits with the given code
func ExitWithError(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	Exit(code)
}
