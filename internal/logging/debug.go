package logging

import (
	"fmt"
	"os"
)

// forced is set by the --debug flag / debug config key.
var forced bool

// SetDebug turns debug output on regardless of the environment.
func SetDebug(on bool) { forced = on }

// DebugEnabled returns true if debug mode is enabled via flag or TASKBOARD_DEBUG.
func DebugEnabled() bool {
	return forced || os.Getenv("TASKBOARD_DEBUG") != ""
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintln(os.Stderr, args...)
	}
}
