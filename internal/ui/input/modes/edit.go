package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pathgrip/internal/ui/input/types"
)

// EditMode handles keys while the dropdown is closed. Everything it does
// not bind belongs to the text area.
type EditMode struct {
	keys types.KeyMap
}

func NewEditMode(keys types.KeyMap) *EditMode {
	return &EditMode{keys: keys}
}

func (m *EditMode) Name() string {
	return "edit"
}

func (m *EditMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.Cancel):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, m.keys.Submit):
		return []types.Action{types.SubmitAction{Text: ctx.Text()}}, true

	case key.Matches(msg, m.keys.Copy):
		return []types.Action{types.CopyAction{Text: ctx.Text()}}, true

	case key.Matches(msg, m.keys.Rescan):
		return []types.Action{types.RescanAction{}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}
	return nil, false
}
