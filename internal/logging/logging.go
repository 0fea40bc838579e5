// SPDX-License-Identifier: Unlicense OR MIT

// Package logging is the ambient stdlib-log wrapper every component
// uses, gated by a debug-mode toggle the way noisetorch's main.go
// gates its own output (-l flag → log.SetOutput(os.Stdout) vs.
// io.Discard).
package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug enables or disables debug-level output. Per spec §4.6
// "Log messages are emitted only when debug mode is enabled;
// otherwise logging is a cheap no-op," Debugf below checks this flag
// before ever touching the logger.
func SetDebug(enabled bool) {
	debug.Store(enabled)
	if enabled {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}

// Debugf logs at debug level, a no-op unless SetDebug(true) was called.
func Debugf(format string, args ...any) {
	if !debug.Load() {
		return
	}
	log.Printf("[debug] "+format, args...)
}

// Warnf logs a transient, recoverable condition (spec §7 "Transient
// per-transaction" errors: missing image resource, missing font,
// missing tile cache slice).
func Warnf(format string, args ...any) {
	log.Printf("[warn] "+format, args...)
}

// Fatalf logs and terminates the process, for the spec §7 "Fatal
// start-up" error class (debug port bind failure, invariant
// violation).
func Fatalf(format string, args ...any) {
	log.Fatalf("[fatal] "+format, args...)
}
