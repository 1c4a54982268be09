package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	ModeEdit Mode = iota
	ModeDropdown
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeDropdown:
		return "dropdown"
	}
	return "unknown"
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	DropdownVisible() bool
	HasResults() bool
	HasSelection() bool
	HighlightedPath() string
	Text() string
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether
	// the key was consumed. Unconsumed keys go to the text area.
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Name returns the mode name for display
	Name() string
}
