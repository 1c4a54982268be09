package handlers

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pathgrip/internal/eventbus"
	"pathgrip/internal/ui/state"
)

// TickMsg is a tick message for animations
type TickMsg time.Time

// TickInterval is the spinner frame duration
const TickInterval = 80 * time.Millisecond

// Tick schedules the next spinner frame
func Tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// EventHandler handles domain events and updates state
type EventHandler struct {
	state      *state.AppState
	invalidate func()
}

// NewEventHandler creates a new event handler. invalidate is called
// whenever the index changed and cached answers may be stale.
func NewEventHandler(appState *state.AppState, invalidate func()) *EventHandler {
	return &EventHandler{
		state:      appState,
		invalidate: invalidate,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.ScanStartedEvent:
		wasScanning := h.state.Scanning
		h.state.Scanning = true
		h.state.IndexedFiles = 0
		h.state.SetStatus("Indexing files...")
		if !wasScanning {
			return Tick()
		}

	case eventbus.ScanCompletedEvent:
		h.state.Scanning = false
		h.state.SetStatus(fmt.Sprintf("Indexed %d files", e.FilesFound))

	case eventbus.IndexChangedEvent:
		h.state.IndexedFiles = e.Total
		if h.invalidate != nil {
			h.invalidate()
		}

	case eventbus.FileCreatedEvent:
		h.state.SetStatus("Added " + e.File.Path)

	case eventbus.FileRemovedEvent:
		h.state.SetStatus("Removed " + e.Path)

	case eventbus.ErrorEvent:
		h.state.SetError(fmt.Sprintf("Error: %s", e.Message))

	case eventbus.ConfigLoadedEvent:
		h.state.ConfigPath = e.Path
	}

	return nil
}
