package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Scan        lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Dropdown    lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	Loading     lipgloss.Style
	Scroll      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Scan:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")), // red
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(0, 1),
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")),
		Row: lipgloss.NewStyle(),
		RowSelected: lipgloss.NewStyle().
			Background(lipgloss.Color("238")).
			Foreground(lipgloss.Color("226")).
			Bold(true),
		Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Scroll:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
