package keymap

import (
	"testing"

	"github.com/tgaillar/linenoise/ansi"
	"github.com/tgaillar/linenoise/internals"
)

func TestDefaultKeymapCoversCoreBindings(t *testing.T) {
	km := DefaultKeymap()
	want := []ansi.Key{
		ansi.NEWLINE, ansi.CARRIAGE_RETURN, ansi.CTRL_C, ansi.CTRL_D,
		ansi.CTRL_H, ansi.BACKSPACE, ansi.CTRL_A, ansi.CTRL_E, ansi.CTRL_W,
		ansi.CTRL_Y, ansi.Left, ansi.Right, ansi.Up, ansi.Down,
		ansi.MetaB, ansi.MetaF,
	}
	for _, k := range want {
		if _, ok := km[k]; !ok {
			t.Fatalf("DefaultKeymap missing binding for %v", k)
		}
	}
}

func TestDefaultKeymapOmitsReadAheadKeys(t *testing.T) {
	km := DefaultKeymap()
	for _, k := range []ansi.Key{ansi.CTRL_R, ansi.MetaDot} {
		if _, ok := km[k]; ok {
			t.Fatalf("%v should not be in the flat dispatch table (needs a read-ahead sub-loop)", k)
		}
	}
}

func TestDefaultKeymapIsAFreshCopyEachCall(t *testing.T) {
	a := DefaultKeymap()
	b := DefaultKeymap()
	marker := ansi.Key(9999)
	a[marker] = func(*internals.Internals) {}
	if _, ok := b[marker]; ok {
		t.Fatal("mutating one keymap should not affect another instance")
	}
}
