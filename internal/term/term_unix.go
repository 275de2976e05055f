//go:build !windows

package term

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Posix is the POSIX/termios backend of the Terminal Adapter, used on
// Linux, macOS, and the other Unixes. Grounded on the teacher's own use of
// raw-mode + fd-based reads, re-platformed from the teacher's
// github.com/dotcloud/docker/pkg/term onto golang.org/x/term and
// golang.org/x/sys/unix, which is the stack the rest of the example corpus
// (other_examples/B00TK1D-bottomline, dhorsley-za, samcharles93-mantle)
// converges on for this exact concern.
type Posix struct {
	fd       int
	input    *os.File
	output   *os.File
	state    *term.State
	cols     int
	rawmode  bool
	isTTY    bool
	termEnv  string
	dumbOnly bool
}

var (
	exitHookOnce sync.Once
	exitHookMu   sync.Mutex
	exitHookList []func()
)

// New returns a Posix Terminal Adapter bound to input/output. input should
// share the output's file descriptor for a good editing experience, matching
// the teacher's own NewScanner contract.
func New(input, output *os.File) (*Posix, error) {
	fd := int(input.Fd())
	return &Posix{
		fd:      fd,
		input:   input,
		output:  output,
		isTTY:   term.IsTerminal(fd),
		termEnv: os.Getenv("TERM"),
	}, nil
}

// IsTTY reports whether the bound input is a terminal device.
func (p *Posix) IsTTY() bool { return p.isTTY }

// TermEnv returns the $TERM value observed at construction time.
func (p *Posix) TermEnv() string { return p.termEnv }

func (p *Posix) EnableRaw() error {
	if !p.isTTY {
		return ErrNotATerminal
	}
	if Unsupported(p.termEnv) {
		return &UnsupportedTermError{Term: p.termEnv}
	}
	state, err := term.MakeRaw(p.fd)
	if err != nil {
		return err
	}
	p.state = state
	p.rawmode = true
	installExitHook(p.DisableRaw)
	return nil
}

func (p *Posix) DisableRaw() {
	if p.rawmode && p.state != nil {
		_ = term.Restore(p.fd, p.state)
		p.rawmode = false
	}
}

// installExitHook adds restore to the list of functions run when the
// process receives SIGINT, SIGTERM or SIGHUP, approximating the C library's
// atexit() hook (§4.1, §5). The signal handler is installed at most once per
// process; every call appends restore to the list, so each EnableRaw adds
// one more entry. Normal return paths restore the mode through DisableRaw,
// not through this hook.
func installExitHook(restore func()) {
	exitHookMu.Lock()
	exitHookList = append(exitHookList, restore)
	exitHookMu.Unlock()

	exitHookOnce.Do(func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		go func() {
			sig := <-sigc
			exitHookMu.Lock()
			for _, fn := range exitHookList {
				fn()
			}
			exitHookMu.Unlock()
			signal.Stop(sigc)
			p, _ := os.FindProcess(os.Getpid())
			_ = p.Signal(sig)
		}()
	})
}

func (p *Posix) ReadByte(timeoutMS int) (byte, error) {
	fds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeoutMS)
	if err != nil {
		if err == unix.EINTR {
			return 0, ErrTimeout
		}
		return 0, err
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	var buf [1]byte
	if _, err := p.input.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (p *Posix) Write(b []byte) (int, error) {
	return p.output.Write(b)
}

func (p *Posix) WindowWidth() int {
	if ws, err := unix.IoctlGetWinsize(int(p.output.Fd()), unix.TIOCGWINSZ); err == nil && ws.Col != 0 {
		p.cols = int(ws.Col)
		return p.cols
	}
	if p.cols == 0 {
		if cols, ok := p.probeWidthByCursor(); ok {
			p.cols = cols
		} else {
			p.cols = 80
		}
	}
	return p.cols
}

// probeWidthByCursor implements §4.1's ESC[6n fallback: save position, jump
// right 999 columns, report, then restore.
func (p *Posix) probeWidthByCursor() (int, bool) {
	here, ok := p.queryCursorColumn()
	if !ok {
		return 0, false
	}
	_, _ = p.Write([]byte("\x1b[999C"))
	there, ok := p.queryCursorColumn()
	if !ok {
		_, _ = p.Write([]byte("\r"))
		return 0, false
	}
	if there > here {
		_, _ = p.Write([]byte(fmt.Sprintf("\x1b[%dD", there-here)))
	}
	return there, true
}

func (p *Posix) queryCursorColumn() (int, bool) {
	_, _ = p.Write([]byte("\x1b[6n"))
	if b, err := p.ReadByte(100); err != nil || b != 0x1b {
		return 0, false
	}
	if b, err := p.ReadByte(100); err != nil || b != '[' {
		return 0, false
	}
	n := 0
	for {
		b, err := p.ReadByte(100)
		if err != nil {
			return 0, false
		}
		switch {
		case b == ';':
			n = 0
		case b == 'R':
			return n, n != 0 && n < 1000
		case b >= '0' && b <= '9':
			n = n*10 + int(b-'0')
		default:
			return 0, false
		}
	}
}

func (p *Posix) ClearScreen()       { _, _ = p.Write([]byte("\x1b[H\x1b[2J")) }
func (p *Posix) CursorToColumn0()   { _, _ = p.Write([]byte("\r")) }
func (p *Posix) EraseToEOL()        { _, _ = p.Write([]byte("\x1b[0K")) }
func (p *Posix) MoveToColumn(x int) { _, _ = p.Write([]byte(fmt.Sprintf("\r\x1b[%dC", x))) }
func (p *Posix) RenderControl(ch byte) {
	_, _ = p.Write([]byte(fmt.Sprintf("\x1b[7m^%c\x1b[0m", ch)))
}
