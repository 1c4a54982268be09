package coordinator

import (
	"pathgrip/internal/domain"
	"pathgrip/internal/ui/services/events"
	"pathgrip/internal/ui/services/insertion"
	"pathgrip/internal/ui/services/navigation"
	"pathgrip/internal/ui/services/search"
	"pathgrip/internal/ui/services/selection"
	"pathgrip/internal/ui/services/token"
)

// Coordinator is the autocomplete engine: it tracks the token under the
// cursor, drives the search cycle, keeps the selection and dropdown window
// in step with the results and splices committed results into the text.
type Coordinator struct {
	Search     *search.Service
	Selection  *selection.Service
	Navigation *navigation.Service

	bus        events.EventBus
	token      domain.Token
	generation uint64
}

// NewCoordinator creates a new coordinator with all services
func NewCoordinator(bus events.EventBus, cache search.Cache, settings search.Settings) *Coordinator {
	return &Coordinator{
		Search:     search.NewService(bus, cache, settings),
		Selection:  selection.NewService(bus),
		Navigation: navigation.NewService(bus),
		bus:        bus,
	}
}

// TextChanged recomputes the token after an edit and restarts the search
// cycle when its text changed.
func (c *Coordinator) TextChanged(text string, cursor int) []search.Effect {
	c.token = token.Locate(text, cursor)
	return c.deliver(search.QueryChanged{Token: c.token})
}

// CursorMoved recomputes the token after a cursor-only move. Leaving the
// current token ends the cycle.
func (c *Coordinator) CursorMoved(text string, cursor int) []search.Effect {
	tok := token.Locate(text, cursor)
	if tok.SameSpan(c.token) {
		c.token = tok
		return nil
	}
	c.token = tok
	if c.Search.Phase() == search.PhaseIdle {
		return nil
	}
	return c.deliver(search.Dismissed{})
}

// Deliver forwards timer and provider outcomes to the search cycle
func (c *Coordinator) Deliver(ev search.Event) []search.Effect {
	return c.deliver(ev)
}

// MoveSelection steps through the dropdown. It reports false when there is
// nothing to navigate, in which case the key belongs to the text area.
func (c *Coordinator) MoveSelection(dir selection.Direction) bool {
	if !c.Visible() || len(c.Search.Results()) == 0 {
		return false
	}
	c.Selection.Move(dir)
	c.Navigation.Follow(c.Selection.Index())
	return true
}

// Commit inserts the highlighted result. ok is false when nothing is
// highlighted and the key should fall through to the text area.
func (c *Coordinator) Commit(text string) (res insertion.Result, fx []search.Effect, ok bool) {
	i, selected := c.Selection.Selected()
	results := c.Search.Results()
	if !c.Visible() || !selected || i >= len(results) {
		return insertion.Result{}, nil, false
	}
	return c.CommitResult(text, results[i])
}

// CommitRow inserts the result shown on line of the dropdown window
func (c *Coordinator) CommitRow(text string, line int) (insertion.Result, []search.Effect, bool) {
	i, ok := c.Navigation.RowAt(line)
	results := c.Search.Results()
	if !c.Visible() || !ok || i >= len(results) {
		return insertion.Result{}, nil, false
	}
	return c.CommitResult(text, results[i])
}

// CommitResult replaces the current token with r and ends the cycle
func (c *Coordinator) CommitResult(text string, r domain.SearchResult) (insertion.Result, []search.Effect, bool) {
	res := insertion.Insert(text, c.token, r)
	fx := c.deliver(search.Dismissed{})
	c.token = token.Locate(res.Text, res.Cursor)
	return res, fx, true
}

// Dismiss hides the dropdown and clears the query; the text is untouched
func (c *Coordinator) Dismiss() []search.Effect {
	return c.deliver(search.Dismissed{})
}

// Dispose cancels the outstanding timer and request. Every later event is
// ignored.
func (c *Coordinator) Dispose() []search.Effect {
	return c.deliver(search.Disposed{})
}

// InvalidateCache forgets cached answers, e.g. after the index changed
func (c *Coordinator) InvalidateCache() {
	c.Search.InvalidateCache()
}

// SetViewportHeight sets how many dropdown rows fit on screen
func (c *Coordinator) SetViewportHeight(rows int) {
	c.Navigation.SetHeight(rows)
	c.Navigation.Follow(c.Selection.Index())
}

// Visible reports whether the dropdown is shown
func (c *Coordinator) Visible() bool { return c.Search.Visible() }

// Loading reports whether a request is in flight
func (c *Coordinator) Loading() bool { return c.Search.Loading() }

// Results returns the current results
func (c *Coordinator) Results() []domain.SearchResult { return c.Search.Results() }

// Selected returns the highlighted row or selection.None
func (c *Coordinator) Selected() int { return c.Selection.Index() }

// Query returns the active query
func (c *Coordinator) Query() string { return c.Search.Query() }

// Token returns the token under the cursor
func (c *Coordinator) Token() domain.Token { return c.token }

// Phase returns the search phase
func (c *Coordinator) Phase() search.Phase { return c.Search.Phase() }

// Window returns the visible half-open range of dropdown rows
func (c *Coordinator) Window() (int, int) { return c.Navigation.Window() }

func (c *Coordinator) deliver(ev search.Event) []search.Effect {
	fx := c.Search.Handle(ev)
	if g := c.Search.Generation(); g != c.generation {
		c.generation = g
		n := len(c.Search.Results())
		c.Selection.Reset(n)
		c.Navigation.Reset(n)
	}
	return fx
}
