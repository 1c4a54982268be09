package ui

import (
	"pathgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// pauseRenderingMsg signals that a pager owns the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals that the pager has exited
type resumeRenderingMsg struct{}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}
