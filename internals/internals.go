// Package internals holds the live state of one editing session — the Edit
// Buffer and its cursor, the kill-ring capture slot, the history session,
// and the renderer — plus the dispatch actions a Keymap binds keys to.
// Adapted from the teacher's own internals package: most of its dispatch
// methods already implement §4.3/§4.7 correctly and are kept with their
// original names and shapes; Refresh is rewritten against §4.2's algorithm,
// and the history/completion/reverse-search/literal-insert/last-arg actions
// the teacher never had are added here.
package internals

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tgaillar/linenoise/ansi"
	"github.com/tgaillar/linenoise/complete"
	"github.com/tgaillar/linenoise/history"
	"github.com/tgaillar/linenoise/internal/term"
	"github.com/tgaillar/linenoise/utils"
)

// ErrInterrupted is set on Err when the session ends via Ctrl-C in the main
// loop (§7's Interrupted error kind). The root package's ReadLine maps this
// to its own exported sentinel.
var ErrInterrupted = errors.New("internals: interrupted")

// Internals is the data structure behind an editing session, useful when
// creating a custom Keymap.
type Internals struct {
	TA     term.Terminal
	H      *history.Ring
	CE     *complete.Engine
	Prompt utils.Text
	Pos    utils.Position
	Cols   int // number of columns, aka window width
	Buf    utils.Text
	Err    error // the error that will be returned to the caller
	Dumb   bool

	// MaxBytes bounds the buffer per §3's invariant: insertion is refused
	// once it would push len(Buf.Bytes)+new_bytes >= MaxBytes-1. Zero means
	// unbounded.
	MaxBytes int

	Capture        utils.Text
	capturePartial bool

	// LiteralNext is armed by Ctrl-V: the next decoded key is inserted as a
	// character without going through the keymap, per §4.7. NUL and the
	// named special keys (arrows, Home, ...) are refused with a bell.
	LiteralNext bool

	metaDotActive bool
	metaDotIdx    int
	metaDotToken  string

	// Stop signals the session loop to end this line's scanning.
	Stop bool
	// EOF is set by DeleteOrEOF when Ctrl-D hits an empty buffer.
	EOF bool
}

func (i *Internals) Insert(c utils.Char) {
	if i.MaxBytes > 0 && len(i.Buf.Bytes)+len(c.P) >= i.MaxBytes-1 {
		i.Bell()
		return
	}
	if i.Pos.Runes == len(i.Buf.Chars) {
		i.Buf = i.Buf.AppendChar(c)
		i.Pos = i.Pos.Add(c)
		// insert_char fast path (§4.3, code 2): end of line, printable,
		// and the line still fits without a window shift.
		if !c.IsControl() && len(i.Prompt.Chars)+i.Buf.ColLen < i.Cols {
			mustWrite(i.TA.Write(c.P))
			return
		}
		i.Refresh()
		return
	}
	i.Buf = i.Buf.InsertCharAt(i.Pos, c)
	i.Pos = i.Pos.Add(c)
	i.Refresh()
}

// InsertLiteral inserts r without going through the printable check,
// serving Ctrl-V's "next key is inserted literally" contract. NUL is
// rejected per §4.7, and so are the negative named-special key codes,
// which are not characters.
func (i *Internals) InsertLiteral(r rune) {
	i.LiteralNext = false
	if r <= 0 {
		i.Bell()
		return
	}
	i.Insert(utils.CharFromRune(r))
}

// ArmLiteralNext is the Ctrl-V dispatch action.
func (i *Internals) ArmLiteralNext() {
	i.LiteralNext = true
}

func (i *Internals) Enter() {
	i.H.EndSession()
	i.Stop = true
}

func (i *Internals) Interrupt() {
	i.H.EndSession()
	i.Err = ErrInterrupted
	i.Stop = true
}

func (i *Internals) DeleteOrEOF() {
	if len(i.Buf.Chars) == 0 {
		i.H.EndSession()
		i.EOF = true
		i.Stop = true
		return
	}
	i.Delete()
}

func (i *Internals) Backspace() {
	if i.Pos.Runes == 0 || len(i.Buf.Chars) == 0 {
		i.Bell()
		return
	}
	c := i.Buf.Chars[i.Pos.Runes-1]
	newPos := i.Pos.Subtract(c)
	wasLast := i.Pos.Runes == len(i.Buf.Chars)
	i.Buf = i.Buf.RemoveCharAt(newPos)
	i.Pos = newPos
	// remove_char fast path (§4.3, code 2): removing the last char at end
	// of line is exactly what "\b \b" draws.
	if wasLast && !c.IsControl() {
		mustWrite(i.TA.Write([]byte("\b \b")))
		return
	}
	i.Refresh()
}

func (i *Internals) Delete() {
	if len(i.Buf.Chars) > 0 && i.Pos.Runes < len(i.Buf.Chars) {
		i.Buf = i.Buf.RemoveCharAt(i.Pos)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) MoveLeft() {
	if i.Pos.Runes > 0 {
		i.Pos = i.Pos.Subtract(i.Buf.Chars[i.Pos.Runes-1])
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) MoveRight() {
	if i.Pos.Runes < len(i.Buf.Chars) {
		i.Pos = i.Pos.Add(i.Buf.Chars[i.Pos.Runes])
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) MoveWordLeft() {
	if i.Pos.Runes > 0 {
		var nonSpaceEncountered bool
		for i.Pos.Runes > 0 {
			c := i.Buf.Chars[i.Pos.Runes-1]
			if unicode.IsSpace(c.R) {
				if nonSpaceEncountered {
					break
				}
			} else {
				nonSpaceEncountered = true
			}
			i.Pos = i.Pos.Subtract(c)
		}
		i.Refresh()
	}
}

func (i *Internals) MoveWordRight() {
	if i.Pos.Runes < len(i.Buf.Chars) {
		var nonSpaceEncountered bool
		for i.Pos.Runes < len(i.Buf.Chars) {
			c := i.Buf.Chars[i.Pos.Runes]
			if unicode.IsSpace(c.R) {
				if nonSpaceEncountered {
					break
				}
			} else {
				nonSpaceEncountered = true
			}
			i.Pos = i.Pos.Add(c)
		}
		i.Refresh()
	}
}

func (i *Internals) MoveBeginning() {
	i.Pos = utils.Position{}
	i.Refresh()
}

func (i *Internals) MoveEnd() {
	i.Pos = utils.End(i.Buf)
	i.Refresh()
}

func (i *Internals) HistoryBack() {
	if text, ok := i.H.Back(i.Buf.String()); ok {
		i.setCurrent(text)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) HistoryForward() {
	if text, ok := i.H.Forward(i.Buf.String()); ok {
		i.setCurrent(text)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) PageUp() {
	if text, ok := i.H.JumpOldest(i.Buf.String()); ok {
		i.setCurrent(text)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) PageDown() {
	if text, ok := i.H.JumpNewest(i.Buf.String()); ok {
		i.setCurrent(text)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) CutLineLeft() {
	if i.Pos.Runes == 0 {
		i.Bell()
		return
	}
	if i.capturePartial {
		i.Capture = i.Buf.Slice(utils.Position{}, i.Pos).Clone().AppendText(i.Capture)
	} else {
		i.Capture = i.Buf.Slice(utils.Position{}, i.Pos).Clone()
	}
	i.Buf = i.Buf.Slice(i.Pos)
	i.Pos = utils.Position{}
	i.Refresh()
}

func (i *Internals) CutLineRight() {
	if i.Pos.Runes >= len(i.Buf.Chars) {
		return
	}
	if i.capturePartial {
		i.Capture = i.Capture.AppendText(i.Buf.Slice(i.Pos).Clone())
	} else {
		i.Capture = i.Buf.Slice(i.Pos).Clone()
	}
	i.capturePartial = true
	i.Buf = i.Buf.Slice(utils.Position{}, i.Pos)
	i.Refresh()
}

func (i *Internals) CutPrevWord() {
	if i.Pos.Runes == 0 {
		i.Bell()
		return
	}
	pos := i.Pos
	var nonSpaceEncountered bool
	for pos.Runes > 0 {
		if unicode.IsSpace(i.Buf.Chars[pos.Runes-1].R) {
			if nonSpaceEncountered {
				break
			}
		} else {
			nonSpaceEncountered = true
		}
		pos = pos.Subtract(i.Buf.Chars[pos.Runes-1])
	}
	if i.capturePartial {
		i.Capture = i.Buf.Slice(pos, i.Pos).Clone().AppendText(i.Capture)
	} else {
		i.Capture = i.Buf.Slice(pos, i.Pos).Clone()
	}
	i.capturePartial = true
	i.Buf = i.Buf.Slice(utils.Position{}, pos).AppendText(i.Buf.Slice(i.Pos))
	i.Pos = pos
	i.Refresh()
}

// Transpose swaps the two characters around, or just before, the cursor.
func (i *Internals) Transpose() {
	if i.Pos.Runes > 0 && len(i.Buf.Chars) > 1 {
		pos := i.Pos
		if pos.Runes == len(i.Buf.Chars) {
			pos = pos.Subtract(i.Buf.Chars[pos.Runes-1])
		}
		a, b := i.Buf.Chars[pos.Runes-1], i.Buf.Chars[pos.Runes]
		start := pos.Bytes - len(a.P)
		swapped := append(append([]byte{}, b.P...), a.P...)
		copy(i.Buf.Bytes[start:], swapped)
		i.Buf.Chars[pos.Runes-1], i.Buf.Chars[pos.Runes] = b, a
		i.Pos = pos.Subtract(a).Add(b, a)
		i.Refresh()
	} else {
		i.Bell()
	}
}

func (i *Internals) Paste() {
	i.Buf = i.Buf.InsertTextAt(i.Pos, i.Capture)
	i.Pos = i.Pos.Add(i.Capture.Chars...)
	i.Refresh()
}

func (i *Internals) Clear() {
	i.TA.ClearScreen()
	i.Cols = i.TA.WindowWidth()
	i.Refresh()
}

func (i *Internals) Bell() {
	mustWrite(i.TA.Write([]byte{0x07}))
}

// setCurrent replaces the whole buffer and moves the cursor to its end,
// implementing §4.3's set_current.
func (i *Internals) setCurrent(s string) {
	i.Buf = utils.TextFromString(s)
	if i.MaxBytes > 0 {
		i.Buf = i.Buf.Truncated(i.MaxBytes - 1)
	}
	i.Pos = utils.End(i.Buf)
}

// ResetMetaDotCycle breaks the Meta-. cycling chain; the session loop calls
// this after dispatching any key other than MetaDot.
func (i *Internals) ResetMetaDotCycle() {
	i.metaDotActive = false
	i.metaDotIdx = 0
	i.metaDotToken = ""
}

// InsertLastArg implements Meta-.: insert the last whitespace-separated
// token of the previous history line, cycling to older lines (and removing
// the previously inserted token first) on consecutive presses.
func (i *Internals) InsertLastArg() {
	entries := i.H.Entries()
	if len(entries) == 0 {
		i.Bell()
		return
	}
	if i.metaDotActive {
		i.metaDotIdx++
	} else {
		i.metaDotActive = true
		i.metaDotIdx = 0
	}
	if i.metaDotIdx >= len(entries) {
		i.metaDotIdx = len(entries) - 1
	}
	token := lastToken(entries[len(entries)-1-i.metaDotIdx])

	if i.metaDotToken != "" {
		prevLen := len([]rune(i.metaDotToken))
		end := i.Pos
		start := end
		for n := 0; n < prevLen && start.Runes > 0; n++ {
			start = start.Subtract(i.Buf.Chars[start.Runes-1])
		}
		i.Buf = i.Buf.Slice(utils.Position{}, start).AppendText(i.Buf.Slice(end))
		i.Pos = start
	}

	tokenText := utils.TextFromString(token)
	i.Buf = i.Buf.InsertTextAt(i.Pos, tokenText)
	i.Pos = i.Pos.Add(tokenText.Chars...)
	i.metaDotToken = token
	i.Refresh()
}

func lastToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// ReverseSearch drives Ctrl-R's reverse-incremental search sub-loop (§4.6).
// readKey blocks for the search sub-loop's own keystrokes. It returns a
// foreign key to reinject into the main dispatcher when the search ends on
// any terminator other than Ctrl-G/Ctrl-C/Ctrl-J.
func (i *Internals) ReverseSearch(readKey func() (ansi.Key, error)) (*ansi.Key, error) {
	savedPrompt := i.Prompt
	defer func() { i.Prompt = savedPrompt }()

	var pattern strings.Builder
	searchIdx := 0
	// dir follows history.Ring's index convention, where older entries sit
	// at a larger scratch index (mirroring Ring.Back's index++): +1 searches
	// toward older lines, -1 toward newer ones.
	dir := 1
	skipSame := false

	render := func() {
		i.Prompt = utils.TextFromString(fmt.Sprintf("(reverse-i-search)'%s': ", pattern.String()))
		i.Refresh()
	}
	render()

	for {
		key, err := readKey()
		if err != nil {
			return nil, err
		}

		switch {
		case key == ansi.CTRL_G || key == ansi.CTRL_C:
			// Ported from linenoise.c's post-search handling: despite its
			// own "terminates the search with no effect" comment, it calls
			// set_current(current, "") right after, clearing the line.
			i.setCurrent("")
			i.Refresh()
			return nil, nil
		case key == ansi.CTRL_J:
			return nil, nil
		case key == ansi.CTRL_R || key == ansi.Up:
			dir = 1
			skipSame = true
		case key == ansi.CTRL_N || key == ansi.Down:
			dir = -1
			skipSame = true
		case key == ansi.BACKSPACE || key == ansi.CTRL_H:
			if pattern.Len() > 0 {
				s := pattern.String()
				pattern.Reset()
				pattern.WriteString(s[:len(s)-1])
			}
			skipSame = false
		case key >= 0x20 && unicode.IsPrint(rune(key)):
			pattern.WriteRune(rune(key))
			skipSame = false
		default:
			return &key, nil
		}

		if pattern.Len() > 0 {
			if text, idx, ok := i.H.Search(pattern.String(), dir, searchIdx, skipSame, i.Buf.String()); ok {
				searchIdx = idx
				i.Buf = utils.TextFromString(text)
				if p := strings.Index(text, pattern.String()); p >= 0 {
					i.Pos = positionAtByte(i.Buf, p)
				} else {
					i.Pos = utils.Position{}
				}
			}
		}
		render()
	}
}

func positionAtByte(t utils.Text, byteOffset int) utils.Position {
	pos := utils.Position{}
	for pos.Bytes < byteOffset && pos.Runes < len(t.Chars) {
		pos = pos.Add(t.Chars[pos.Runes])
	}
	return pos
}

// Complete triggers the completion engine bound to CE, implementing §4.4's
// two UI modes. readKey serves rotation mode's read-ahead loop.
func (i *Internals) Complete(readKey func() (ansi.Key, error)) (*ansi.Key, error) {
	if i.CE == nil || i.CE.Callback == nil {
		return nil, nil
	}
	line := i.Buf.String()
	word, start, end := extractWord(i.Buf, i.Pos)

	if i.CE.ListMode {
		next := rune(0)
		if end.Runes < len(i.Buf.Chars) {
			next = i.Buf.Chars[end.Runes].R
		}
		outcome, grid := i.CE.List(line, word, start.Runes, end.Runes, next, i.Bell, i.Cols)
		if outcome.Changed {
			i.applyCompletion(start, end, outcome.Text)
			if outcome.AdvanceExisting {
				i.Pos = i.Pos.Add(i.Buf.Chars[i.Pos.Runes])
			}
		}
		if len(grid) > 0 {
			i.printGrid(grid)
		}
		i.Refresh()
		return nil, nil
	}

	// cur tracks the span currently occupied by whichever candidate was last
	// rendered, since each candidate may differ in length from the word it
	// replaced; start never moves, but the replaced region's end does.
	cur := end
	render := func(candidate string) {
		cur = i.applyCompletion(start, cur, candidate)
		i.Refresh()
	}
	outcome, err := i.CE.Rotation(line, word, start.Runes, end.Runes, render, i.Bell, readKey)
	if err != nil {
		return nil, err
	}
	if outcome.Changed {
		// Idempotent for TAB/accept (outcome.Text already equals what render
		// last drew); restores the original word on ESCAPE.
		i.applyCompletion(start, cur, outcome.Text)
		i.Refresh()
	}
	return outcome.Reinject, nil
}

func extractWord(buf utils.Text, pos utils.Position) (word string, start, end utils.Position) {
	end = pos
	start = pos
	for start.Runes > 0 && !unicode.IsSpace(buf.Chars[start.Runes-1].R) {
		start = start.Subtract(buf.Chars[start.Runes-1])
	}
	word = buf.Slice(start, end).String()
	return word, start, end
}

// applyCompletion replaces buf[start:end) with text and returns the
// position where the replacement ends, so callers can track the span a
// multi-step completion (e.g. rotation) currently occupies.
func (i *Internals) applyCompletion(start, end utils.Position, text string) utils.Position {
	replacement := utils.TextFromString(text)
	i.Buf = i.Buf.Slice(utils.Position{}, start).AppendText(replacement).AppendText(i.Buf.Slice(end))
	i.Pos = start.Add(replacement.Chars...)
	return i.Pos
}

func (i *Internals) printGrid(lines []string) {
	mustWrite(i.TA.Write([]byte("\r\n")))
	for _, line := range lines {
		mustWrite(i.TA.Write([]byte(line)))
		mustWrite(i.TA.Write([]byte("\r\n")))
	}
}

// Refresh recomputes the visible window and redraws the line, per §4.2.
func (i *Internals) Refresh() {
	i.Cols = i.TA.WindowWidth()

	buf := i.Buf
	pos := i.Pos
	pchars := len(i.Prompt.Chars) - ansi.ColorSGRLen(i.Prompt.Bytes)

	n := pchars + len(buf.Chars) + countControls(buf.Chars[:pos.Runes])
	if pos.Runes < len(buf.Chars) && buf.Chars[pos.Runes].IsControl() {
		n++
	}

	start := 0
	localPos := pos.Runes
	for n >= i.Cols && localPos > 0 {
		n--
		if buf.Chars[start].IsControl() {
			n--
		}
		start++
		localPos--
	}

	i.TA.CursorToColumn0()
	mustWrite(i.TA.Write(i.Prompt.Bytes))

	col := pchars
	cursorCol := -1
	for idx := start; idx < len(buf.Chars); idx++ {
		c := buf.Chars[idx]
		width := c.ColLen
		if c.IsControl() {
			width = 2
		}
		if col+width > i.Cols {
			break
		}
		if idx == pos.Runes {
			cursorCol = col
		}
		if c.IsControl() {
			i.TA.RenderControl(byte(c.R) + '@')
		} else {
			mustWrite(i.TA.Write(c.P))
		}
		col += width
	}
	if cursorCol == -1 {
		cursorCol = col
	}

	i.TA.EraseToEOL()
	i.TA.MoveToColumn(cursorCol)
}

func countControls(chars []utils.Char) int {
	n := 0
	for _, c := range chars {
		if c.IsControl() {
			n++
		}
	}
	return n
}

func mustWrite(n int, err error) int {
	if err != nil {
		panic(err)
	}
	return n
}
