package treeutils

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
)

// TerminalWidth returns the column count of the terminal on fd
func TerminalWidth(fd int) (int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTerminalGeometry, err)
	}
	if ws.Col == 0 {
		return 0, fmt.Errorf("%w: zero columns reported", ErrTerminalGeometry)
	}
	return int(ws.Col), nil
}

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	return err == nil
}

// TruncateMiddle shortens s to at most max terminal columns by replacing
// its middle with a single ellipsis. Wide characters count as two columns
// and are never split, so the result may be a column short of max. A max
// below one yields an empty string.
func TruncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	width := ansi.StringWidth(s)
	if width <= max {
		return s
	}
	if max == 1 {
		return "…"
	}

	keep := max - 1
	head := (keep + 1) / 2
	tail := keep - head
	return ansi.Truncate(s, head, "") + "…" + keepTail(s, width, tail)
}

// keepTail returns the last tail columns of s. TruncateLeft keeps a wide
// character that straddles the cut, so that case drops one more column.
func keepTail(s string, width, tail int) string {
	kept := ansi.TruncateLeft(s, width-tail, "")
	if ansi.StringWidth(kept) > tail {
		kept = ansi.TruncateLeft(s, width-tail+1, "")
	}
	return kept
}
