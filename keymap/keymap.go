package keymap

import (
	"github.com/tgaillar/linenoise/ansi"
	"github.com/tgaillar/linenoise/internals"
)

// Keymap is a hash table mapping decoded key events to dispatch actions.
// There are no locks on this map; treat it as static (one initial write,
// then as many concurrent reads as you wish).
//
// Ctrl-R (reverse search) and Meta-. are deliberately absent: both need a
// read-ahead sub-loop that a flat dispatch table cannot express, so the
// session controller special-cases them, exactly as linenoise.c's own
// switch does not route ctrl('R') or SPECIAL_META_DOT through a table
// either.
type Keymap map[ansi.Key]func(*internals.Internals)

// DefaultKeymap returns a copy of the default Keymap. Useful if
// inspection/customization is needed.
func DefaultKeymap() Keymap {
	return Keymap{
		ansi.NEWLINE:         (*internals.Internals).Enter,
		ansi.CARRIAGE_RETURN: (*internals.Internals).Enter,
		ansi.CTRL_C:          (*internals.Internals).Interrupt,
		ansi.CTRL_D:          (*internals.Internals).DeleteOrEOF,
		ansi.CTRL_H:          (*internals.Internals).Backspace,
		ansi.BACKSPACE:       (*internals.Internals).Backspace,
		ansi.CTRL_L:          (*internals.Internals).Clear,
		ansi.CTRL_T:          (*internals.Internals).Transpose,
		ansi.CTRL_V:          (*internals.Internals).ArmLiteralNext,

		ansi.CTRL_B: (*internals.Internals).MoveLeft,
		ansi.CTRL_F: (*internals.Internals).MoveRight,
		ansi.CTRL_P: (*internals.Internals).HistoryBack,
		ansi.CTRL_N: (*internals.Internals).HistoryForward,

		ansi.CTRL_U: (*internals.Internals).CutLineLeft,
		ansi.CTRL_K: (*internals.Internals).CutLineRight,
		ansi.CTRL_A: (*internals.Internals).MoveBeginning,
		ansi.CTRL_E: (*internals.Internals).MoveEnd,
		ansi.CTRL_W: (*internals.Internals).CutPrevWord,
		ansi.CTRL_Y: (*internals.Internals).Paste,

		ansi.MetaB: (*internals.Internals).MoveWordLeft,
		ansi.MetaF: (*internals.Internals).MoveWordRight,

		ansi.Left:     (*internals.Internals).MoveLeft,
		ansi.Right:    (*internals.Internals).MoveRight,
		ansi.Up:       (*internals.Internals).HistoryBack,
		ansi.Down:     (*internals.Internals).HistoryForward,
		ansi.Home:     (*internals.Internals).MoveBeginning,
		ansi.End:      (*internals.Internals).MoveEnd,
		ansi.Delete:   (*internals.Internals).Delete,
		ansi.PageUp:   (*internals.Internals).PageUp,
		ansi.PageDown: (*internals.Internals).PageDown,

		// Reserved (§4.7's dispatch table lists it explicitly as ignored).
		ansi.Insert: func(*internals.Internals) {},
	}
}
