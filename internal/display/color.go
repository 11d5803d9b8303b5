package display

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// ANSI color codes for terminal output.
// Using raw ANSI to avoid pulling lipgloss into every CLI command.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

// Exported constants for use in help templates.
const (
	CReset  = reset
	CBold   = bold
	CDim    = dim
	CRed    = red
	CGreen  = green
	CYellow = yellow
	CBlue   = blue
	CCyan   = cyan
)

func Bold(s string) string   { return bold + s + reset }
func Dim(s string) string    { return dim + s + reset }
func Red(s string) string    { return red + s + reset }
func Green(s string) string  { return green + s + reset }
func Yellow(s string) string { return yellow + s + reset }
func Blue(s string) string   { return blue + s + reset }
func Cyan(s string) string   { return cyan + s + reset }

// DiagColor colors a diagnostic message by kind: structural problems in the
// snapshot are yellow, data problems red.
func DiagColor(d proctree.Diagnostic) string {
	switch d.Kind {
	case proctree.DiagMalformed, proctree.DiagInflation:
		return red + d.Message + reset
	case proctree.DiagCycle, proctree.DiagOrphan, proctree.DiagDuplicate:
		return yellow + d.Message + reset
	default:
		return d.Message
	}
}

// visibleLen returns the terminal cell width of s, ignoring ANSI codes.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\033' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}

// padRight pads a string to width based on visible length (ignoring ANSI codes).
func padRight(s string, width int) string {
	vis := visibleLen(s)
	if vis >= width {
		return s
	}
	return s + fmt.Sprintf("%*s", width-vis, "")
}
