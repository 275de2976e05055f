package utf8x

import "testing"

func TestDecodeAndEncodeRuneRoundTrip(t *testing.T) {
	cases := []rune{'a', '日', '💥'}
	for _, r := range cases {
		enc := EncodeRune(r)
		got, size := DecodeRune(enc)
		if got != r {
			t.Fatalf("DecodeRune(EncodeRune(%q)) = %q, want %q", r, got, r)
		}
		if size != len(enc) {
			t.Fatalf("size = %d, want %d", size, len(enc))
		}
	}
}

func TestRuneCount(t *testing.T) {
	s := "a日b💥"
	if got := RuneCount([]byte(s), len(s)); got != 4 {
		t.Fatalf("RuneCount = %d, want 4", got)
	}
}

func TestIndexByteOffset(t *testing.T) {
	s := "a日b"
	ix := NewIndex(s)
	if ix.RuneLen() != 3 {
		t.Fatalf("RuneLen = %d, want 3", ix.RuneLen())
	}
	want := []int{0, 1, 4}
	for i, w := range want {
		if got := ix.ByteOffset(i); got != w {
			t.Fatalf("ByteOffset(%d) = %d, want %d", i, got, w)
		}
	}
	if got := ix.ByteOffset(3); got != len(s) {
		t.Fatalf("ByteOffset(RuneLen) = %d, want %d (one past the end)", got, len(s))
	}
}
