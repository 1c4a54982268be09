package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pathgrip/internal/domain"
)

// DropdownState is what the suggestion panel shows
type DropdownState struct {
	Results  []domain.SearchResult
	Selected int // -1 when nothing is highlighted
	Start    int // first visible row
	End      int // one past the last visible row
	Loading  bool
	Spinner  string // current spinner frame
	Width    int // outer width including the border
}

// DropdownRenderer renders the suggestion panel
type DropdownRenderer struct {
	styles *Styles
}

// NewDropdownRenderer creates a new dropdown renderer
func NewDropdownRenderer(styles *Styles) *DropdownRenderer {
	return &DropdownRenderer{styles: styles}
}

// Chrome is the number of rows and columns the border takes
const Chrome = 2

// Render draws the visible window of rows inside a border
func (r *DropdownRenderer) Render(s DropdownState) string {
	inner := s.Width - Chrome
	if inner < 4 {
		inner = 4
	}

	var lines []string
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(s.Results) {
		end = len(s.Results)
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(s.Results[i], i == s.Selected, inner))
	}

	if s.Loading && len(lines) == 0 {
		lines = append(lines, r.styles.Loading.Render(pad(" "+s.Spinner+" Searching...", inner)))
	} else if s.Loading {
		// stale rows stay while the next answer is in flight
		last := end - 1
		text := rowText(s.Results[last], inner-4) + " " + s.Spinner
		lines[len(lines)-1] = r.rowStyle(last == s.Selected).Render(pad(text, inner))
	}

	return r.styles.Dropdown.Width(inner).Render(strings.Join(lines, "\n"))
}

func (r *DropdownRenderer) renderRow(res domain.SearchResult, selected bool, width int) string {
	return r.rowStyle(selected).Render(pad(rowText(res, width-2), width))
}

func (r *DropdownRenderer) rowStyle(selected bool) lipgloss.Style {
	if selected {
		return r.styles.RowSelected
	}
	return r.styles.Row
}

// rowText is "name  dir/path" cut to width cells. Directories get a
// trailing slash.
func rowText(res domain.SearchResult, width int) string {
	name := res.Name
	if name == "" {
		name = res.Path
	}
	if !res.IsFile {
		name += "/"
	}
	text := " " + name
	if res.Path != "" && res.Path != res.Name {
		text = fmt.Sprintf(" %s  %s", name, res.Path)
	}
	return runewidth.Truncate(text, width, "…")
}

func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
