package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pathgrip/internal/ui/input/types"
)

// DropdownMode handles keys while suggestions are shown and falls back
// to EditMode for the rest.
type DropdownMode struct {
	keys types.KeyMap
	edit *EditMode
}

func NewDropdownMode(keys types.KeyMap, edit *EditMode) *DropdownMode {
	return &DropdownMode{keys: keys, edit: edit}
}

func (m *DropdownMode) Name() string {
	return "dropdown"
}

func (m *DropdownMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if !ctx.HasResults() {
			return nil, false
		}
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Down):
		if !ctx.HasResults() {
			return nil, false
		}
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.Commit):
		// without a highlighted row enter and tab keep their usual meaning
		if !ctx.HasSelection() {
			return nil, false
		}
		return []types.Action{types.CommitAction{}}, true

	case key.Matches(msg, m.keys.Dismiss):
		return []types.Action{types.DismissAction{}}, true

	case key.Matches(msg, m.keys.Preview):
		if path := ctx.HighlightedPath(); path != "" {
			return []types.Action{types.PreviewAction{Path: path}}, true
		}
		return nil, true
	}
	return m.edit.HandleKey(msg, ctx)
}
