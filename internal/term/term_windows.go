//go:build windows

package term

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/windows"
)

// Windows is the direct win32 console backend of the Terminal Adapter,
// the Go-native analogue of linenoise.c's USE_WINCONSOLE path: cell writes
// at an (x, y) pair, with y tracking the input row and synthetic keys
// translated to the same abstract codes the POSIX backend produces.
type Windows struct {
	inHandle  windows.Handle
	outHandle windows.Handle
	origMode  uint32
	rawmode   bool
	cols      int
	rows      int
	x, y      int
	isTTY     bool
	termEnv   string
}

// IsTTY reports whether the bound input is a console handle.
func (w *Windows) IsTTY() bool { return w.isTTY }

// TermEnv returns the $TERM value observed at construction time (mostly
// unused on Windows, kept for interface parity with the POSIX backend).
func (w *Windows) TermEnv() string { return w.termEnv }

var exitHookOnce sync.Once

func New(_, _ *os.File) (*Windows, error) {
	in, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, err
	}
	out, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, err
	}
	var mode uint32
	isTTY := windows.GetConsoleMode(in, &mode) == nil
	return &Windows{inHandle: in, outHandle: out, isTTY: isTTY, termEnv: os.Getenv("TERM")}, nil
}

func (w *Windows) EnableRaw() error {
	if err := w.refreshWindowSize(); err != nil {
		return err
	}
	if err := windows.GetConsoleMode(w.inHandle, &w.origMode); err != nil {
		return err
	}
	mode := windows.ENABLE_PROCESSED_INPUT
	if err := windows.SetConsoleMode(w.inHandle, uint32(mode)); err != nil {
		return err
	}
	w.rawmode = true
	exitHookOnce.Do(func() {})
	return nil
}

func (w *Windows) DisableRaw() {
	if w.rawmode {
		_ = windows.SetConsoleMode(w.inHandle, w.origMode)
		w.rawmode = false
	}
}

func (w *Windows) refreshWindowSize() error {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(w.outHandle, &info); err != nil {
		w.cols = 80
		return err
	}
	w.cols = int(info.Size.X)
	w.rows = int(info.Size.Y)
	w.x = int(info.CursorPosition.X)
	w.y = int(info.CursorPosition.Y)
	if w.cols <= 0 {
		w.cols = 80
	}
	return nil
}

// ReadByte on Windows decodes one console key event at a time and encodes
// it back into the byte stream the shared ansi.Decode state machine
// expects, so the core's key decoder stays platform-agnostic (§4.1, §9).
func (w *Windows) ReadByte(timeoutMS int) (byte, error) {
	pending, ok := w.pendingQueue()
	if ok {
		return pending, nil
	}

	var rec windows.InputRecord
	var n uint32
	wait := uint32(windows.INFINITE)
	if timeoutMS >= 0 {
		wait = uint32(timeoutMS)
	}
	ev, err := windows.WaitForSingleObject(w.inHandle, wait)
	if err != nil {
		return 0, err
	}
	if ev == uint32(windows.WAIT_TIMEOUT) {
		return 0, ErrTimeout
	}
	if err := windows.ReadConsoleInput(w.inHandle, &rec, 1, &n); err != nil {
		return 0, err
	}
	if rec.EventType != windows.KEY_EVENT {
		return w.ReadByte(0)
	}
	ker := rec.KeyEvent
	if ker.KeyDown == 0 {
		return w.ReadByte(0)
	}
	w.queueFromKeyEvent(ker)
	return w.nextQueued()
}

// queue buffers the bytes one console key event expands to (escape
// sequences for arrow/function keys), since a single KEY_EVENT_RECORD may
// represent a multi-byte abstract key.
var queueMu sync.Mutex
var byteQueue []byte

func (w *Windows) pendingQueue() (byte, bool) {
	queueMu.Lock()
	defer queueMu.Unlock()
	if len(byteQueue) == 0 {
		return 0, false
	}
	b := byteQueue[0]
	byteQueue = byteQueue[1:]
	return b, true
}

func (w *Windows) nextQueued() (byte, error) {
	b, ok := w.pendingQueue()
	if !ok {
		return 0, ErrTimeout
	}
	return b, nil
}

func (w *Windows) queueFromKeyEvent(k windows.KeyEventRecord) {
	push := func(bs ...byte) {
		queueMu.Lock()
		byteQueue = append(byteQueue, bs...)
		queueMu.Unlock()
	}
	const enhanced = 0x100
	if k.ControlKeyState&enhanced != 0 {
		switch k.VirtualKeyCode {
		case windows.VK_LEFT:
			push('\x1b', '[', 'D')
		case windows.VK_RIGHT:
			push('\x1b', '[', 'C')
		case windows.VK_UP:
			push('\x1b', '[', 'A')
		case windows.VK_DOWN:
			push('\x1b', '[', 'B')
		case windows.VK_INSERT:
			push('\x1b', '[', '2', '~')
		case windows.VK_DELETE:
			push('\x1b', '[', '3', '~')
		case windows.VK_HOME:
			push('\x1b', '[', 'H')
		case windows.VK_END:
			push('\x1b', '[', 'F')
		case windows.VK_PRIOR:
			push('\x1b', '[', '5', '~')
		case windows.VK_NEXT:
			push('\x1b', '[', '6', '~')
		}
		return
	}
	if r := k.Char; r != 0 {
		push(byte(r))
	}
}

func (w *Windows) Write(b []byte) (int, error) {
	var pos windows.Coord
	pos.X = int16(w.x)
	pos.Y = int16(w.y)
	var written uint32
	if err := windows.WriteConsoleOutputCharacter(w.outHandle, b, pos, &written); err != nil {
		return 0, err
	}
	w.x += len(b)
	return len(b), nil
}

func (w *Windows) WindowWidth() int {
	_ = w.refreshWindowSize()
	return w.cols
}

func (w *Windows) ClearScreen() {
	var pos windows.Coord
	var n uint32
	_ = windows.FillConsoleOutputCharacter(w.outHandle, ' ', uint32(w.cols*w.rows), pos, &n)
	_ = windows.SetConsoleCursorPosition(w.outHandle, pos)
	w.x, w.y = 0, 0
}

func (w *Windows) CursorToColumn0() {
	w.x = 0
	pos := windows.Coord{X: 0, Y: int16(w.y)}
	_ = windows.SetConsoleCursorPosition(w.outHandle, pos)
}

func (w *Windows) EraseToEOL() {
	var n uint32
	pos := windows.Coord{X: int16(w.x), Y: int16(w.y)}
	_ = windows.FillConsoleOutputCharacter(w.outHandle, ' ', uint32(w.cols-w.x), pos, &n)
}

func (w *Windows) MoveToColumn(x int) {
	w.x = x
	pos := windows.Coord{X: int16(x), Y: int16(w.y)}
	_ = windows.SetConsoleCursorPosition(w.outHandle, pos)
}

func (w *Windows) RenderControl(ch byte) {
	_, _ = w.Write([]byte(fmt.Sprintf("^%c", ch)))
}
