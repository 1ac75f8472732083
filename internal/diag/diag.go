// Package diag is the pipeline's diagnostic stream: stage warnings and
// fatal errors go through here, plus opt-in verbose stage tracing.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// verbose enables stage-trace output even when DEBUG is unset; the CLI's
// --verbose flag sets it through SetVerbose. Pipeline stages do not read
// it directly — only Printf (via IsTraceEnabled) checks it, so the "-v"
// switch behaves symmetrically with DEBUG=1.
var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	verbose bool
)

// SetOutput redirects the diagnostic stream. Tests use this to capture
// output; production code never needs to call it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetVerbose toggles stage tracing independent of the DEBUG env var.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsTraceEnabled reports whether verbose stage tracing should run.
func IsTraceEnabled() bool {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if v {
		return true
	}
	return os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Printf writes a verbose trace line when tracing is enabled; it is a
// no-op otherwise, so call sites don't need to guard it themselves.
func Printf(format string, args ...interface{}) {
	if !IsTraceEnabled() {
		return
	}
	fmt.Fprintf(writer(), "[trace] "+format+"\n", args...)
}

// Warn records a recoverable pipeline error (§7's DanglingReference,
// UnknownRuntimeId, EmptyHotSet, MissingRuntimeTrace kinds). Unlike
// Printf, warnings are always emitted — they're part of the stage's
// contract with the operator, not debug noise.
func Warn(stage, format string, args ...interface{}) {
	fmt.Fprintf(writer(), "[warn:%s] "+format+"\n", append([]interface{}{stage}, args...)...)
}

// Fatal formats a fatal pipeline error (§7's SchemaVersionMismatch,
// MalformedIr, DuplicateSymbolId, IoFailure kinds) as a single line on the
// diagnostic stream and returns it wrapped for the caller to propagate as
// a nonzero exit.
func Fatal(stage, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(writer(), "[fatal:%s] %s\n", stage, msg)
	return fmt.Errorf("%s: %s", stage, msg)
}
