package linenoise

import (
	"errors"

	"github.com/tgaillar/linenoise/internal/term"
)

// Sentinel and typed errors matching §7's error kinds. ReadLine reports EOF
// and Ctrl-C through its error result; the dispatch layer signals them with
// flags, not panics. ReadLine's recover() returns a panic carrying an error
// value (a terminal write failure, or a runtime error) as ReadLine's error;
// a panic carrying any other value propagates.
var (
	// ErrInterrupted is returned by ReadLine when the user presses Ctrl-C.
	ErrInterrupted = errors.New("linenoise: interrupted")
)

// UnsupportedTermError is the error the terminal adapter's EnableRaw reports
// when $TERM names a terminal on the unsupported list (dumb, cons25).
// ReadLine does not return it: on any EnableRaw failure it falls back to
// line-at-a-time reading.
type UnsupportedTermError = term.UnsupportedTermError
