// Package utils holds the Edit Buffer's data model: Char, Text, and
// Position, each tracking its size in the three units §3 requires
// (bytes, codepoints, display columns). Adapted from the teacher's utils
// package; the duplicate Clipboard/History types it also carried are
// dropped (they duplicated, and as retrieved did not even match, the types
// internals.Internals and history.Ring already own — see DESIGN.md).
package utils

import (
	"github.com/mattn/go-runewidth"

	"github.com/tgaillar/linenoise/utf8x"
)

// Char is one codepoint, cached alongside its UTF-8 encoding and display
// width so the Renderer never needs to recompute either.
type Char struct {
	P      []byte
	R      rune
	ColLen int
}

// CharFromRune builds a Char, sourcing its column width from go-runewidth
// (replacing the teacher's shinichy/go-wcwidth). Control characters
// (R < 0x20) report a width of 1 here; the Renderer adds the extra column
// their "^X" glyph occupies, matching linenoise.c's separate accounting
// in refreshLine rather than folding it into the width of the rune itself.
func CharFromRune(r rune) Char {
	col := 1
	if r >= 0x20 {
		col = runewidth.RuneWidth(r)
		if col == 0 {
			col = 1
		}
	}
	return Char{P: utf8x.EncodeRune(r), R: r, ColLen: col}
}

// IsControl reports whether c is a control character needing the
// inverted-caret glyph treatment of §4.2/§4.1's render_control.
func (c Char) IsControl() bool {
	return c.R < ' '
}

func (c Char) Clone() Char {
	b := make([]byte, len(c.P))
	copy(b, c.P)
	c.P = b
	return c
}

// Text is a sequence of Chars, kept with its concatenated byte and column
// totals so that insert/remove/slice never need a full rescan.
type Text struct {
	Chars  []Char
	Bytes  []byte
	ColLen int
}

// TextFromString decodes s one codepoint at a time via utf8x.DecodeRune,
// the UTF-8 Codec collaborator §2 describes.
func TextFromString(s string) Text {
	b := []byte(s)
	t := Text{Chars: make([]Char, 0, len(s)), Bytes: make([]byte, 0, len(s))}
	for len(b) > 0 {
		r, size := utf8x.DecodeRune(b)
		c := CharFromRune(r)
		t.Chars = append(t.Chars, c)
		t.Bytes = append(t.Bytes, c.P...)
		t.ColLen += c.ColLen
		b = b[size:]
	}
	return t
}

func (t Text) String() string { return string(t.Bytes) }

func (t Text) AppendChar(c Char) Text {
	return Text{append(t.Chars, c), append(t.Bytes, c.P...), t.ColLen + c.ColLen}
}

func (t Text) AppendText(n Text) Text {
	return Text{append(t.Chars, n.Chars...), append(t.Bytes, n.Bytes...), t.ColLen + n.ColLen}
}

func (t Text) InsertCharAt(pos Position, c Char) Text {
	chars := make([]Char, len(t.Chars)+1)
	copy(chars, t.Chars[:pos.Runes])
	chars[pos.Runes] = c
	copy(chars[pos.Runes+1:], t.Chars[pos.Runes:])

	bytes := make([]byte, len(t.Bytes)+len(c.P))
	copy(bytes, t.Bytes[:pos.Bytes])
	copy(bytes[pos.Bytes:], c.P)
	copy(bytes[pos.Bytes+len(c.P):], t.Bytes[pos.Bytes:])
	return Text{chars, bytes, t.ColLen + c.ColLen}
}

func (t Text) InsertTextAt(pos Position, n Text) Text {
	chars := make([]Char, len(t.Chars)+len(n.Chars))
	copy(chars, t.Chars[:pos.Runes])
	copy(chars[pos.Runes:], n.Chars)
	copy(chars[pos.Runes+len(n.Chars):], t.Chars[pos.Runes:])

	bytes := make([]byte, len(t.Bytes)+len(n.Bytes))
	copy(bytes, t.Bytes[:pos.Bytes])
	copy(bytes[pos.Bytes+len(n.Bytes):], t.Bytes[pos.Bytes:])
	copy(bytes[pos.Bytes:], n.Bytes)

	return Text{chars, bytes, t.ColLen + n.ColLen}
}

func (t Text) RemoveCharAt(pos Position) Text {
	c := t.Chars[pos.Runes]
	t.Bytes = append(t.Bytes[:pos.Bytes], t.Bytes[pos.Bytes+len(c.P):]...)
	t.Chars = append(t.Chars[:pos.Runes], t.Chars[pos.Runes+1:]...)
	t.ColLen -= c.ColLen
	return t
}

// Slice returns the subrange [from, to) (or [from, end) with one
// argument), mirroring the teacher's variadic shape.
func (t Text) Slice(segment ...Position) Text {
	switch len(segment) {
	case 1:
		t.Chars = t.Chars[segment[0].Runes:]
		t.Bytes = t.Bytes[segment[0].Bytes:]
		t.ColLen -= segment[0].Columns
	case 2:
		t.Chars = t.Chars[segment[0].Runes:segment[1].Runes]
		t.Bytes = t.Bytes[segment[0].Bytes:segment[1].Bytes]
		t.ColLen = segment[1].Columns - segment[0].Columns
	default:
		panic("utils: Slice expects 1 or 2 Position arguments")
	}
	return t
}

func (t Text) Clone() Text {
	chars := make([]Char, len(t.Chars))
	for i, c := range t.Chars {
		chars[i] = c.Clone()
	}
	b := make([]byte, len(t.Bytes))
	copy(b, t.Bytes)
	return Text{Chars: chars, Bytes: b, ColLen: t.ColLen}
}

// Truncated returns t cut down to at most maxBytes bytes, never splitting
// a codepoint, per §4.3's set_current contract ("truncated to bufmax-1").
func (t Text) Truncated(maxBytes int) Text {
	if len(t.Bytes) <= maxBytes {
		return t
	}
	pos := Position{}
	for pos.Runes < len(t.Chars) {
		next := pos.Add(t.Chars[pos.Runes])
		if next.Bytes > maxBytes {
			break
		}
		pos = next
	}
	return t.Slice(Position{}, pos)
}

// Position locates a point in a Text in all three units at once, so moving
// the cursor never requires a rescan of the buffer.
type Position struct {
	Bytes   int
	Runes   int
	Columns int
}

func (pos Position) Add(chars ...Char) Position {
	for _, c := range chars {
		pos.Runes++
		pos.Bytes += len(c.P)
		pos.Columns += c.ColLen
	}
	return pos
}

func (pos Position) Subtract(chars ...Char) Position {
	for _, c := range chars {
		pos.Runes--
		pos.Bytes -= len(c.P)
		pos.Columns -= c.ColLen
	}
	return pos
}

// End returns the Position of t's end, i.e. one past its last codepoint.
func End(t Text) Position {
	return Position{Bytes: len(t.Bytes), Runes: len(t.Chars), Columns: t.ColLen}
}
