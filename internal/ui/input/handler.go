package input

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"pathgrip/internal/ui/input/modes"
	"pathgrip/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	keys        types.KeyMap
}

func New() *Handler {
	return NewWithKeys(types.DefaultKeyMap())
}

func NewWithKeys(keys types.KeyMap) *Handler {
	edit := modes.NewEditMode(keys)

	h := &Handler{
		currentMode: types.ModeEdit,
		keys:        keys,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeEdit] = edit
	h.modes[types.ModeDropdown] = modes.NewDropdownMode(keys, edit)

	return h
}

// HandleKey routes msg to the mode matching the dropdown visibility. It
// reports false when the key should go to the text area.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	h.sync(ctx)

	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, false
	}
	return handler.HandleKey(msg, ctx)
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

func (h *Handler) Keys() types.KeyMap {
	return h.keys
}

func (h *Handler) sync(ctx types.Context) {
	mode := types.ModeEdit
	if ctx.DropdownVisible() {
		mode = types.ModeDropdown
	}
	if mode != h.currentMode {
		log.Debug("input mode changed", "from", h.currentMode, "to", mode)
		h.currentMode = mode
	}
}
