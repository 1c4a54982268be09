package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screen coordinates of the text area inside the rendered view
const (
	EditorTop  = 2 // title line and a blank line above
	EditorLeft = 1 // Main padding
)

// FooterLines are the rows at the bottom of the screen taken by the status
// line and the help bar. The dropdown must stay clear of them.
const FooterLines = 2

// ReadyMarker is printed in the status line for the e2e driver
const ReadyMarker = "__READY__"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Editor        string // rendered text area
	Scanning      bool
	Spinner       string
	IndexedFiles  int
	StatusMessage string
	LastError     string
	Position      string // "3/40" while a row is highlighted
	HelpView      string
	Dropdown      *DropdownState
	DropdownX     int
	DropdownY     int
	Ready         bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles   *Styles
	dropdown *DropdownRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:   styles,
		dropdown: NewDropdownRenderer(styles),
	}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")
	content.WriteString(state.Editor)

	// Fill the screen so the dropdown can be drawn below the text area;
	// the status line and the help bar sit on the last two lines
	currentLines := strings.Count(content.String(), "\n") + 1
	if paddingNeeded := state.Height - currentLines - FooterLines; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))
	content.WriteString("\n")
	if state.HelpView != "" {
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	finalContent := r.styles.Main.Render(content.String())

	if state.Dropdown != nil {
		panel := r.dropdown.Render(*state.Dropdown)
		finalContent = Overlay(finalContent, panel, state.DropdownX, state.DropdownY)
	}

	if state.Height > 0 {
		finalContent = lipgloss.NewStyle().MaxHeight(state.Height).Render(finalContent)
	}
	return finalContent
}

// DropdownHeight is the rendered height of s including the border
func (r *Renderer) DropdownHeight(s DropdownState) int {
	return lipgloss.Height(r.dropdown.Render(s))
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("pathgrip")

	var right string
	if state.Scanning {
		right = r.styles.Scan.Render(fmt.Sprintf("%s Indexing %d files", state.Spinner, state.IndexedFiles))
	} else {
		right = r.styles.Dim.Render(fmt.Sprintf("%d files", state.IndexedFiles))
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 2 - lipgloss.Width(logo) - lipgloss.Width(right)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	return logo + strings.Repeat(" ", paddingWidth) + right
}

func (r *Renderer) renderStatus(state ViewState) string {
	var parts []string
	if state.LastError != "" {
		parts = append(parts, r.styles.StatusError.Render(state.LastError))
	} else if state.StatusMessage != "" {
		parts = append(parts, r.styles.Status.Render(state.StatusMessage))
	}
	if state.Position != "" {
		parts = append(parts, r.styles.Scroll.Render(state.Position))
	}
	if state.Ready {
		parts = append(parts, r.styles.Dim.Render(ReadyMarker))
	}
	return strings.Join(parts, "  ")
}
