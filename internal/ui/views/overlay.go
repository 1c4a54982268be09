package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Overlay draws top over base with its upper left corner at (x, y). Cells
// of base left and right of top keep their styling. Lines of top that fall
// outside base are dropped.
func Overlay(base, top string, x, y int) string {
	if top == "" {
		return base
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = spliceLine(baseLines[row], line, x)
	}
	return strings.Join(baseLines, "\n")
}

func spliceLine(under, over string, x int) string {
	w := ansi.StringWidth(over)
	left := ansi.Truncate(under, x, "")
	if gap := x - ansi.StringWidth(left); gap > 0 {
		left += strings.Repeat(" ", gap)
	}
	right := ""
	if ansi.StringWidth(under) > x+w {
		right = ansi.TruncateLeft(under, x+w, "")
	}
	// reset so styles of the left part do not bleed into the overlay
	return left + ansi.ResetStyle + over + ansi.ResetStyle + right
}
