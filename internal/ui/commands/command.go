package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"pathgrip/internal/domain"
	"pathgrip/internal/eventbus"
	"pathgrip/internal/provider"
	"pathgrip/internal/ui/services/search"
	"pathgrip/internal/ui/state"
)

// DebounceMsg is delivered when the debounce timer with ID elapses
type DebounceMsg struct {
	ID uint64
}

// SearchDoneMsg carries the answer of the request bound to Handle
type SearchDoneMsg struct {
	Handle  *search.Handle
	Results []domain.SearchResult
}

// SearchFailedMsg carries the error of the request bound to Handle
type SearchFailedMsg struct {
	Handle *search.Handle
	Err    error
}

// CopiedMsg reports the outcome of a clipboard write
type CopiedMsg struct {
	Err error
}

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Context  context.Context
	State    *state.AppState
	Bus      eventbus.EventBus
	Provider provider.Provider
}

// StartTimerCommand arms a debounce timer
type StartTimerCommand struct {
	id    uint64
	delay time.Duration
}

// NewStartTimerCommand creates a new timer command
func NewStartTimerCommand(id uint64, delay time.Duration) *StartTimerCommand {
	return &StartTimerCommand{id: id, delay: delay}
}

// Execute schedules the DebounceMsg
func (c *StartTimerCommand) Execute() tea.Cmd {
	id := c.id
	if c.delay <= 0 {
		return func() tea.Msg { return DebounceMsg{ID: id} }
	}
	return tea.Tick(c.delay, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id}
	})
}

// SearchCommand calls the provider for a request handle
type SearchCommand struct {
	ctx    *CommandContext
	handle *search.Handle
}

// NewSearchCommand creates a new search command
func NewSearchCommand(ctx *CommandContext, h *search.Handle) *SearchCommand {
	return &SearchCommand{ctx: ctx, handle: h}
}

// Execute binds the handle on the calling goroutine so a cancel that
// happens before the command runs still reaches the provider.
func (c *SearchCommand) Execute() tea.Cmd {
	h := c.handle
	p := c.ctx.Provider
	parent := c.ctx.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx := h.Bind(parent)

	return func() tea.Msg {
		if p == nil {
			return SearchFailedMsg{Handle: h, Err: provider.ErrNoCommand}
		}
		start := time.Now()
		results, err := p.Search(ctx, h.Query)
		log.Debug("search finished", "query", h.Query, "id", h.ID,
			"results", len(results), "took", time.Since(start), "err", err)
		if err != nil {
			return SearchFailedMsg{Handle: h, Err: err}
		}
		return SearchDoneMsg{Handle: h, Results: results}
	}
}

// RescanCommand asks discovery to rebuild the index
type RescanCommand struct {
	ctx *CommandContext
}

// NewRescanCommand creates a new rescan command
func NewRescanCommand(ctx *CommandContext) *RescanCommand {
	return &RescanCommand{ctx: ctx}
}

// Execute publishes the scan request
func (c *RescanCommand) Execute() tea.Cmd {
	c.ctx.State.Scanning = true
	c.ctx.State.SetStatus("Starting rescan...")
	if c.ctx.Bus != nil {
		c.ctx.Bus.Publish(eventbus.ScanRequestedEvent{Roots: c.ctx.State.Roots})
	}
	return nil
}

// CopyCommand writes text to the system clipboard
type CopyCommand struct {
	text  string
	write func(string) error
}

// NewCopyCommand creates a new copy command
func NewCopyCommand(text string, write func(string) error) *CopyCommand {
	if write == nil {
		write = clipboard.WriteAll
	}
	return &CopyCommand{text: text, write: write}
}

// Execute copies in the background
func (c *CopyCommand) Execute() tea.Cmd {
	text, write := c.text, c.write
	return func() tea.Msg {
		if err := write(text); err != nil {
			return CopiedMsg{Err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return CopiedMsg{}
	}
}
