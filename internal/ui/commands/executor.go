package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pathgrip/internal/eventbus"
	"pathgrip/internal/provider"
	"pathgrip/internal/ui/services/search"
	"pathgrip/internal/ui/state"
)

// Executor handles command execution
type Executor struct {
	ctx       *CommandContext
	clipboard func(string) error
}

// NewExecutor creates a new command executor
func NewExecutor(ctx context.Context, state *state.AppState, bus eventbus.EventBus, p provider.Provider) *Executor {
	return &Executor{
		ctx: &CommandContext{
			Context:  ctx,
			State:    state,
			Bus:      bus,
			Provider: p,
		},
	}
}

// SetClipboard replaces the clipboard writer
func (e *Executor) SetClipboard(write func(string) error) {
	e.clipboard = write
}

// Run turns the host effects of the search cycle into commands
func (e *Executor) Run(fx []search.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range fx {
		switch f := f.(type) {
		case search.StartTimer:
			cmds = append(cmds, NewStartTimerCommand(f.ID, f.Delay).Execute())
		case search.IssueRequest:
			cmds = append(cmds, NewSearchCommand(e.ctx, f.Handle).Execute())
		case search.StopTimer:
			// stale DebounceMsg ids are dropped by the search cycle
		}
	}
	return tea.Batch(cmds...)
}

// ExecuteRescan creates and executes a rescan command
func (e *Executor) ExecuteRescan() tea.Cmd {
	return NewRescanCommand(e.ctx).Execute()
}

// ExecuteCopy creates and executes a copy command
func (e *Executor) ExecuteCopy(text string) tea.Cmd {
	return NewCopyCommand(text, e.clipboard).Execute()
}
