package linenoise

import "github.com/tgaillar/linenoise/complete"

// Sink is the growing, ordered vector of completion candidates passed to a
// completion callback.
type Sink = complete.Sink

// CompletionCallback is the host-registered candidate source (§4.4).
type CompletionCallback = complete.Callback

// CompletionFilterCallback renders a candidate for grid display only.
type CompletionFilterCallback = complete.FilterCallback

// SetCompletionCallback registers fn as the completion source, returning
// whichever callback was previously registered (or nil).
func (e *Editor) SetCompletionCallback(fn CompletionCallback) CompletionCallback {
	prior := e.ce.Callback
	e.ce.Callback = fn
	return prior
}

// SetCompletionFilterCallback registers fn as the display filter, returning
// the previously registered filter (or nil).
func (e *Editor) SetCompletionFilterCallback(fn CompletionFilterCallback) CompletionFilterCallback {
	prior := e.ce.Filter
	e.ce.Filter = fn
	return prior
}

// SetListMode toggles between rotation mode (default) and grid list mode.
func (e *Editor) SetListMode(listMode bool) {
	e.ce.ListMode = listMode
}

// SetCompletionAppendChar overrides the character appended after a single
// accepted candidate in list mode (default ' '); 0 suppresses it.
func (e *Editor) SetCompletionAppendChar(r rune) {
	e.ce.AppendChar = r
}

// AddCompletion is a convenience wrapper so completion callbacks written
// against this package's types need not import package complete directly.
func AddCompletion(sink *Sink, candidate string) {
	sink.Add(candidate)
}
