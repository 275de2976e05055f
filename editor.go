package linenoise

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tgaillar/linenoise/ansi"
	"github.com/tgaillar/linenoise/complete"
	"github.com/tgaillar/linenoise/debug"
	"github.com/tgaillar/linenoise/history"
	"github.com/tgaillar/linenoise/internal/term"
	"github.com/tgaillar/linenoise/internals"
	"github.com/tgaillar/linenoise/keymap"
	"github.com/tgaillar/linenoise/utils"
)

// Config carries the line-length and history-length defaults of §6; the
// escape-decoder and window-probe timeouts are constants in packages ansi
// and term and are not configurable here. The zero Config is invalid; use NewEditor's defaults via the functional-options
// idiom below.
type Config struct {
	MaxLineBytes  int
	HistoryMaxLen int
}

// Option configures an Editor, following the functional-options idiom
// (generalizing the teacher's nil-means-default parameter convention in
// NewScanner to a multi-field config surface).
type Option func(*Editor)

// WithMaxLineBytes overrides the default 4096-byte line cap.
func WithMaxLineBytes(n int) Option {
	return func(e *Editor) { e.cfg.MaxLineBytes = n }
}

// WithHistoryMaxLen overrides the default history ring bound of 100.
func WithHistoryMaxLen(n int) Option {
	return func(e *Editor) { e.cfg.HistoryMaxLen = n; e.h.SetMaxLen(n) }
}

// WithKeymap overrides the default dispatch table.
func WithKeymap(km keymap.Keymap) Option {
	return func(e *Editor) { e.km = km }
}

// WithOnInterrupt overrides the default Ctrl-C behavior, which prints "^C"
// and ends ReadLine with ErrInterrupted. When fn returns true, ReadLine
// reads a fresh line instead of returning ErrInterrupted.
func WithOnInterrupt(fn func(e *Editor) (more bool)) Option {
	return func(e *Editor) { e.onInterrupt = fn }
}

// Editor reads and interactively edits one line at a time from an input
// source using ANSI control sequences when possible.
type Editor struct {
	cfg         Config
	onInterrupt func(e *Editor) (more bool)
	km          keymap.Keymap
	h           *history.Ring
	ce          *complete.Engine

	input  *os.File
	output *os.File
	ta     term.Terminal
	dumb   bool
	scan   *bufio.Scanner

	buf utils.Text
}

func defaultOnInterrupt(e *Editor) (more bool) {
	if e.ta != nil {
		_, _ = e.ta.Write([]byte("^C"))
	}
	return false
}

// NewEditor returns a ready-to-use Editor reading from os.Stdin and writing
// to os.Stdout, configured by opts.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		cfg: Config{
			MaxLineBytes:  4096,
			HistoryMaxLen: history.DefaultMaxLen,
		},
		onInterrupt: defaultOnInterrupt,
		km:          keymap.DefaultKeymap(),
		h:           history.NewRing(),
		ce:          complete.NewEngine(),
		input:       os.Stdin,
		output:      os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}

	ta, err := term.New(e.input, e.output)
	if err != nil {
		e.dumb = true
		return e
	}
	e.ta = ta
	e.dumb = !ta.IsTTY() || term.Unsupported(ta.TermEnv())
	return e
}

// ReadLine performs one full edit, returning the entered line, io.EOF on
// Ctrl-D against an empty buffer or end of input, or ErrInterrupted on
// Ctrl-C (per §6's linenoise() contract and §7's error kinds).
func (e *Editor) ReadLine(prompt string) (line string, err error) {
	if e.dumb {
		return e.readLineDumb(prompt)
	}

	i := &internals.Internals{
		TA:      e.ta,
		H:       e.h,
		CE:      e.ce,
		Prompt:  utils.TextFromString(prompt),
		Cols:    e.ta.WindowWidth(),
		MaxBytes: e.cfg.MaxLineBytes,
	}

	defer func() {
		i.TA.DisableRaw()
		if rec := recover(); rec != nil {
			if perr, ok := rec.(error); ok {
				err = perr
				return
			}
			panic(rec)
		}
	}()

	if enableErr := i.TA.EnableRaw(); enableErr != nil {
		return e.readLineDumb(prompt)
	}

	e.h.StartSession("")
	i.Buf = utils.Text{}
	i.Pos = utils.Position{}
	i.Refresh()

	readKey := func() (ansi.Key, error) {
		return ansi.Decode(func(timeoutMS int) (byte, error) {
			b, err := i.TA.ReadByte(timeoutMS)
			if errors.Is(err, term.ErrTimeout) {
				return b, ansi.ErrTimeout
			}
			return b, err
		}, true)
	}

	for !i.Stop {
		key, derr := readKey()
		if derr != nil {
			i.Err = derr
			break
		}
		debug.Tracef("key: %d", key)

		if i.LiteralNext {
			i.InsertLiteral(rune(key))
			continue
		}

		if key == ansi.TAB {
			atEnd := i.Pos.Runes == len(i.Buf.Chars)
			if i.CE != nil && i.CE.Callback != nil && (i.CE.ListMode || atEnd) {
				reinject, cerr := i.Complete(readKey)
				if cerr != nil {
					i.Err = cerr
					break
				}
				if reinject == nil {
					i.ResetMetaDotCycle()
					continue
				}
				key = *reinject
			}
		}
		if key == ansi.TAB {
			// Not intercepted by completion: inserted as a literal
			// character, per §4.7's dispatch table.
			i.Insert(utils.CharFromRune('\t'))
			i.ResetMetaDotCycle()
			continue
		}

		if key == ansi.CTRL_R {
			reinject, serr := i.ReverseSearch(readKey)
			if serr != nil {
				i.Err = serr
				break
			}
			i.ResetMetaDotCycle()
			if reinject == nil {
				continue
			}
			key = *reinject
		}

		if key == ansi.MetaDot {
			i.InsertLastArg()
			continue
		}
		i.ResetMetaDotCycle()

		if fn, ok := e.km[key]; ok {
			fn(i)
			continue
		}

		if key >= 0x20 {
			i.Insert(utils.CharFromRune(rune(key)))
			continue
		}
		// Unrecognized control byte: ignore.
	}

	e.buf = i.Buf

	if i.Err != nil {
		if i.Err == internals.ErrInterrupted {
			return e.handleInterrupt(prompt)
		}
		return "", i.Err
	}
	if i.EOF {
		return "", io.EOF
	}
	_, _ = e.ta.Write([]byte("\r\n"))
	return i.Buf.String(), nil
}

func (e *Editor) handleInterrupt(prompt string) (string, error) {
	if e.onInterrupt == nil {
		e.onInterrupt = defaultOnInterrupt
	}
	if e.onInterrupt(e) {
		return e.ReadLine(prompt)
	}
	return "", ErrInterrupted
}

func (e *Editor) readLineDumb(prompt string) (string, error) {
	if e.scan == nil {
		e.scan = bufio.NewScanner(e.input)
		e.scan.Split(bufio.ScanLines)
	}
	if _, err := fmt.Fprint(e.output, prompt); err != nil {
		return "", err
	}
	if !e.scan.Scan() {
		if err := e.scan.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	e.buf = utils.Text{Bytes: e.scan.Bytes()}
	return e.buf.String(), nil
}

// Columns probes the terminal width by briefly entering and leaving raw
// mode, useful for callers sizing output before the first prompt. Ported
// from linenoise.c's linenoiseColumns.
func (e *Editor) Columns() int {
	if e.dumb {
		return 80
	}
	if err := e.ta.EnableRaw(); err != nil {
		return 80
	}
	defer e.ta.DisableRaw()
	return e.ta.WindowWidth()
}

// ClearScreen clears the terminal immediately, independent of an active
// ReadLine call.
func (e *Editor) ClearScreen() {
	e.ta.ClearScreen()
}

// SetMultiLine is reserved; multi-line editing is an explicit non-goal at
// this revision, so this is a documented no-op.
func (e *Editor) SetMultiLine(bool) {}

// PrintKeyCodes is a diagnostic that dumps the active keymap's key codes.
func (e *Editor) PrintKeyCodes() {
	for key := range e.km {
		fmt.Fprintf(e.output, "%d\r\n", key)
	}
}
