// Package debug is an env-gated trace logger, generalized from the
// teacher's own debug.go (DEBUG_UNILINE, a single package-level debug
// func) into a small reusable package so it can be called from ansi,
// internals, complete, and history alike. No example repo in the retrieval
// pack wires a structured logging library into a terminal-raw-mode line
// editor specifically, and doing so here would work against the whole
// point of a dependency-light line editor, so this one concern stays on
// the standard library (os/fmt) by deliberate choice.
package debug

import (
	"fmt"
	"os"
	"sync"
)

var (
	mu   sync.Mutex
	file *os.File
)

func init() {
	name := os.Getenv("LINENOISE_DEBUG_LOG")
	if name == "" {
		return
	}
	f, err := os.Create(name)
	if err == nil {
		file = f
		Tracef("trace started, log=%s", name)
	}
}

// Tracef writes a formatted trace line when LINENOISE_DEBUG_LOG is set; it
// is a silent no-op otherwise.
func Tracef(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return
	}
	fmt.Fprintf(file, format+"\n", args...)
}
