// Package complete implements the completion engine of §4.4: word-triggered
// candidate collection via a host callback, a case-insensitive ordered sink,
// and the two presentation modes (single-line rotation and grid listing with
// longest-common-prefix insertion). New package — the teacher shipped no
// completion support at all (its own doc.go lists "add support for tab
// completion" as a TODO).
package complete

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tgaillar/linenoise/ansi"
)

// Callback is the host-registered candidate source. line is the full
// current edit buffer (exposed so the callback may look left of start to
// disambiguate command vs argument, per §4.4); word is the extracted word
// over [start,end) codepoints of line.
type Callback func(line, word string, start, end int, sink *Sink)

// FilterCallback renders a candidate for grid display only; the string
// stored in the Sink (and therefore committed to the buffer) is untouched.
type FilterCallback func(candidate string) (display string, ok bool)

// Sink is the growing, case-insensitive ascending-ordered vector of
// candidate strings passed to Callback.
type Sink struct {
	items []string
}

// Add inserts candidate in case-insensitive ascending order by binary walk.
// Duplicates are not deduplicated; the callback is trusted.
func (s *Sink) Add(candidate string) {
	lower := strings.ToLower(candidate)
	i := sort.Search(len(s.items), func(i int) bool {
		return strings.ToLower(s.items[i]) >= lower
	})
	s.items = append(s.items, "")
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = candidate
}

func (s *Sink) Len() int        { return len(s.items) }
func (s *Sink) At(i int) string { return s.items[i] }

// Engine drives one completion session.
type Engine struct {
	Callback Callback
	Filter   FilterCallback
	ListMode bool

	// AppendChar is appended after a single accepted candidate (default
	// ' '); the callback may set it to 0 to suppress this, e.g. when the
	// candidate already ends in '/'.
	AppendChar rune
}

// NewEngine returns an Engine with the default append character.
func NewEngine() *Engine {
	return &Engine{AppendChar: ' '}
}

// Outcome describes what a completion pass produced for the caller to apply
// to the live edit buffer.
type Outcome struct {
	// Text replaces buf[start:end].
	Text string
	// CursorAt is the byte offset within Text where the cursor lands.
	CursorAt int
	// Reinject is set only by Rotation, when the session ended because of a
	// key that was not TAB or ESC; the caller must reprocess it as if just
	// read.
	Reinject *ansi.Key
	Changed  bool

	// AdvanceExisting is set only by List's single-candidate case, when the
	// character already following the word in the live buffer equals
	// AppendChar: the caller must move the cursor one rune past end rather
	// than insert a duplicate, per linenoise.c's completeLine
	// (`current->pos++` instead of `insert_char`).
	AdvanceExisting bool
}

// Rotation drives rotation mode's read-ahead loop: render is called with
// each candidate (or the original word, for the virtual past-the-end slot)
// so the caller can show it as if it were the live buffer.
func (e *Engine) Rotation(line, word string, start, end int, render func(candidate string), bell func(), readKey func() (ansi.Key, error)) (Outcome, error) {
	var sink Sink
	e.Callback(line, word, start, end, &sink)
	if sink.Len() == 0 {
		bell()
		return Outcome{}, nil
	}

	i := 0
	for {
		if i < sink.Len() {
			render(sink.At(i))
		} else {
			render(word)
		}

		key, err := readKey()
		if err != nil {
			return Outcome{}, err
		}

		switch key {
		case ansi.TAB:
			i = (i + 1) % (sink.Len() + 1)
			if i == sink.Len() {
				bell()
			}
		case ansi.ESCAPE:
			return Outcome{Text: word, CursorAt: len(word), Changed: true}, nil
		default:
			chosen := word
			if i < sink.Len() {
				chosen = sink.At(i)
			}
			return Outcome{Text: chosen, CursorAt: len(chosen), Changed: true, Reinject: &key}, nil
		}
	}
}

// List drives list mode: computes the longest common prefix across all
// candidates and returns it as the replacement for [start,end); when more
// than one candidate matched, also returns a display grid sized to cols.
// next is the rune that follows the replaced word in the live buffer (0 if
// the word runs to end of line), needed by the single-candidate case to
// decide whether AppendChar is already present (§4.4's "or advance over it
// if already present").
func (e *Engine) List(line, word string, start, end int, next rune, bell func(), cols int) (Outcome, []string) {
	var sink Sink
	e.Callback(line, word, start, end, &sink)
	if sink.Len() == 0 {
		bell()
		return Outcome{}, nil
	}

	lcp := sink.At(0)
	for i := 1; i < sink.Len(); i++ {
		lcp = commonPrefix(lcp, sink.At(i))
	}

	if sink.Len() == 1 {
		text := lcp
		if e.AppendChar != 0 {
			if next == e.AppendChar {
				return Outcome{Text: text, CursorAt: len(text), Changed: true, AdvanceExisting: true}, nil
			}
			text += string(e.AppendChar)
		}
		return Outcome{Text: text, CursorAt: len(text), Changed: true}, nil
	}

	if lcp == "" || lcp == word {
		bell()
	}

	return Outcome{Text: lcp, CursorAt: len(lcp), Changed: lcp != word}, e.renderGrid(&sink, cols)
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// renderGrid lays candidates out column-major with a column count of
// (cols+2)/(maxWidth+2) and two-space separators, applying Filter for
// display only.
func (e *Engine) renderGrid(sink *Sink, cols int) []string {
	display := make([]string, sink.Len())
	maxWidth := 0
	for i := 0; i < sink.Len(); i++ {
		s := sink.At(i)
		if e.Filter != nil {
			if d, ok := e.Filter(s); ok {
				s = d
			}
		}
		display[i] = s
		if w := runewidth.StringWidth(s); w > maxWidth {
			maxWidth = w
		}
	}

	numCols := (cols + 2) / (maxWidth + 2)
	if numCols < 1 {
		numCols = 1
	}
	rows := (len(display) + numCols - 1) / numCols

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		for col := 0; col < numCols; col++ {
			idx := col*rows + row
			if idx >= len(display) {
				continue
			}
			b.WriteString(display[idx])
			if col < numCols-1 && idx+rows < len(display) {
				pad := maxWidth - runewidth.StringWidth(display[idx]) + 2
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
