// logger.go - ambient logging for the H89 core
//
// The teacher (audio_chip.go) logs through the standard "log" package; no
// third-party logging library appears anywhere in the retrieved example
// pack, so this mirrors that choice rather than reaching for logrus/zap/
// zerolog (see DESIGN.md).

package main

import (
	"io"
	"log"
)

// Logger is a thin alias so call sites don't import "log" directly and so
// tests can swap in a discarding writer.
type Logger = log.Logger

// NewLogger builds a Logger writing to w with the given prefix, matching the
// level of ceremony the teacher's debug subsystems use (a prefix per
// subsystem, timestamps omitted for deterministic test output).
func NewLogger(w io.Writer, prefix string) *Logger {
	return log.New(w, prefix, 0)
}

// DiscardLogger returns a Logger that throws everything away, used by tests
// and by Machine when the caller doesn't want console noise.
func DiscardLogger() *Logger {
	return log.New(io.Discard, "", 0)
}
