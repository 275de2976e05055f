// Package utf8x implements the UTF-8 Codec component of spec.md §2: four
// pure primitives layered over unicode/utf8, plus a codepoint→byte index
// table for repeated lookups. No third-party decoder in the retrieval pack
// improves on the standard library for this (see DESIGN.md); utf8x exists
// to give the codec a named, citable collaborator of its own rather than
// leaving the four operations inlined into utils.Text's constructors.
package utf8x

import "unicode/utf8"

// DecodeRune decodes one codepoint from the head of b, returning the
// decoded rune and its width in bytes. Mirrors utf8.DecodeRune; b[0:size]
// is the encoded codepoint.
func DecodeRune(b []byte) (r rune, size int) {
	return utf8.DecodeRune(b)
}

// EncodeRune encodes r to its UTF-8 byte sequence (up to four bytes).
func EncodeRune(r rune) []byte {
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	return buf
}

// RuneCount counts the codepoints in the first n bytes of b.
func RuneCount(b []byte, n int) int {
	return utf8.RuneCount(b[:n])
}

// Index is a codepoint→byte offset table built once over a string, so
// repeated ByteOffset lookups (e.g. a host completion callback slicing
// line by a codepoint index it was handed) don't rescan from the start
// each time.
type Index struct {
	offsets []int
}

// NewIndex builds an Index over s. offsets[i] is the byte offset of the
// i-th codepoint; offsets[len(offsets)-1] is len(s), one past the last
// codepoint, so ByteOffset(RuneCount) is always valid.
func NewIndex(s string) *Index {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return &Index{offsets: offsets}
}

// ByteOffset maps codepoint index runeIdx to its byte offset. runeIdx must
// be in [0, codepoint count]; out-of-range panics, matching slice
// semantics rather than silently clamping.
func (ix *Index) ByteOffset(runeIdx int) int {
	return ix.offsets[runeIdx]
}

// RuneLen returns the number of codepoints covered by ix.
func (ix *Index) RuneLen() int {
	return len(ix.offsets) - 1
}
