/*
Package linenoise provides a readline-style line editor in pure Go with
Unicode support, for interactively reading and editing one line of input
from a terminal.

Most of the usual GNU readline capabilities are implemented: cursor
movement, kill/yank, transpose, history navigation and reverse-incremental
search, and tab completion in either single-candidate rotation or grid-list
form. If the provided input source is not a TTY, or $TERM names an
unsupported terminal (dumb, cons25), ReadLine falls back to a
line-at-a-time scan with bufio.Scanner.

Multi-line editing is out of scope at this revision; SetMultiLine exists as
a reserved no-op.
*/
package linenoise
