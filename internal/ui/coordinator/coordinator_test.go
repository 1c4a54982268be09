package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathgrip/internal/domain"
	"pathgrip/internal/ui/services/events"
	"pathgrip/internal/ui/services/search"
	"pathgrip/internal/ui/services/selection"
)

// harness plays the host: it remembers the armed timer and the issued
// requests so tests can fire and answer them explicitly.
type harness struct {
	t        *testing.T
	c        *Coordinator
	timer    uint64
	requests []*search.Handle
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := NewCoordinator(&events.NullBus{}, search.NewLRUCache(16, 0), search.Settings{
		MinQueryLength: 2,
		Debounce:       350 * time.Millisecond,
	})
	c.SetViewportHeight(5)
	return &harness{t: t, c: c}
}

func (h *harness) run(fx []search.Effect) {
	for _, e := range fx {
		switch e := e.(type) {
		case search.StartTimer:
			h.timer = e.ID
		case search.StopTimer:
			if h.timer == e.ID {
				h.timer = 0
			}
		case search.IssueRequest:
			h.requests = append(h.requests, e.Handle)
		}
	}
}

func (h *harness) fire() *search.Handle {
	h.t.Helper()
	require.NotZero(h.t, h.timer, "no timer armed")
	n := len(h.requests)
	id := h.timer
	h.timer = 0
	h.run(h.c.Deliver(search.TimerFired{ID: id}))
	require.Len(h.t, h.requests, n+1)
	return h.requests[n]
}

func (h *harness) answer(req *search.Handle, paths ...string) {
	var rs []domain.SearchResult
	for _, p := range paths {
		rs = append(rs, domain.SearchResult{Path: p, Name: p, IsFile: true})
	}
	h.run(h.c.Deliver(search.RequestResolved{Handle: req, Results: rs}))
}

func (h *harness) typeText(text string) {
	h.run(h.c.TextChanged(text, len([]rune(text))))
}

func TestCoordinator_FullCycle(t *testing.T) {
	h := newHarness(t)

	text := "a.ts, bar"
	h.typeText(text)
	assert.Equal(t, domain.Token{Text: "bar", Start: 6, End: 9}, h.c.Token())
	assert.Equal(t, search.PhaseDebouncing, h.c.Phase())

	req := h.fire()
	assert.True(t, h.c.Visible())
	assert.True(t, h.c.Loading())

	h.answer(req, "src/bar.ts", "lib/bar.ts")
	assert.Equal(t, selection.None, h.c.Selected())
	assert.Len(t, h.c.Results(), 2)

	require.True(t, h.c.MoveSelection(selection.DirectionDown))
	res, fx, ok := h.c.Commit(text)
	require.True(t, ok)
	h.run(fx)

	assert.Equal(t, "a.ts, src/bar.ts, ", res.Text)
	assert.Equal(t, 16, res.Cursor)
	assert.False(t, h.c.Visible())
	assert.Empty(t, h.c.Query())
}

func TestCoordinator_CommitWithoutSelectionFallsThrough(t *testing.T) {
	h := newHarness(t)
	h.typeText("bar")
	h.answer(h.fire(), "src/bar.ts")

	_, _, ok := h.c.Commit("bar")
	assert.False(t, ok)
	assert.True(t, h.c.Visible())
}

func TestCoordinator_SelectionWrapsAndResets(t *testing.T) {
	h := newHarness(t)
	h.typeText("ba")
	h.answer(h.fire(), "a", "b", "c")

	var seen []int
	for i := 0; i < 4; i++ {
		h.c.MoveSelection(selection.DirectionDown)
		seen = append(seen, h.c.Selected())
	}
	assert.Equal(t, []int{0, 1, 2, 0}, seen)

	h.typeText("bar")
	h.answer(h.fire(), "d", "e")
	assert.Equal(t, selection.None, h.c.Selected())
}

func TestCoordinator_StaleResponseNeverShows(t *testing.T) {
	h := newHarness(t)

	h.typeText("ba")
	first := h.fire()
	h.typeText("bar")
	second := h.fire()

	h.answer(second, "bar.go")
	h.answer(first, "ba.go")

	require.Len(t, h.c.Results(), 1)
	assert.Equal(t, "bar.go", h.c.Results()[0].Path)
	assert.True(t, first.Cancelled())
}

func TestCoordinator_DebounceOnlyLastQuery(t *testing.T) {
	h := newHarness(t)

	h.typeText("ba")
	h.typeText("bar")
	h.typeText("barr")
	h.fire()

	require.Len(t, h.requests, 1)
	assert.Equal(t, "barr", h.requests[0].Query)
}

func TestCoordinator_CacheHitAvoidsProvider(t *testing.T) {
	h := newHarness(t)

	h.typeText("bar")
	h.answer(h.fire(), "src/bar.ts")
	h.run(h.c.Dismiss())

	h.typeText("bar ")
	assert.Zero(t, h.timer)
	assert.Len(t, h.requests, 1)
	assert.True(t, h.c.Visible())
}

func TestCoordinator_EscapeKeepsText(t *testing.T) {
	h := newHarness(t)
	h.typeText("src/ma")
	h.answer(h.fire(), "src/main.go")
	h.c.MoveSelection(selection.DirectionDown)

	h.run(h.c.Dismiss())
	assert.False(t, h.c.Visible())
	assert.Empty(t, h.c.Query())
	assert.Equal(t, selection.None, h.c.Selected())
	assert.Equal(t, "src/ma", h.c.Token().Text)
}

func TestCoordinator_CursorLeavingTokenDismisses(t *testing.T) {
	h := newHarness(t)
	text := "main.go, src/ma"
	h.typeText(text)
	h.answer(h.fire(), "src/main.go")

	// moving inside the token keeps the dropdown
	h.run(h.c.CursorMoved(text, 12))
	assert.True(t, h.c.Visible())

	h.run(h.c.CursorMoved(text, 2))
	assert.False(t, h.c.Visible())
	assert.Equal(t, "main.go", h.c.Token().Text)
}

func TestCoordinator_MoveSelectionWhenHidden(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.c.MoveSelection(selection.DirectionDown))

	h.typeText("ba")
	req := h.fire()
	// loading without rows: keys still belong to the text area
	assert.False(t, h.c.MoveSelection(selection.DirectionUp))
	assert.NotNil(t, req)
}

func TestCoordinator_CommitRow(t *testing.T) {
	h := newHarness(t)
	h.c.SetViewportHeight(2)
	h.typeText("ba")
	h.answer(h.fire(), "a", "b", "c")

	h.c.MoveSelection(selection.DirectionUp) // row 2, window [1,3)
	start, end := h.c.Window()
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	res, _, ok := h.c.CommitRow("ba", 0)
	require.True(t, ok)
	assert.Equal(t, "b, ", res.Text)

	_, _, ok = h.c.CommitRow("ba", 0)
	assert.False(t, ok)
}

func TestCoordinator_DisposeStopsEverything(t *testing.T) {
	h := newHarness(t)
	h.typeText("bar")
	req := h.fire()

	h.run(h.c.Dispose())
	assert.True(t, req.Cancelled())

	h.answer(req, "late.go")
	assert.Empty(t, h.c.Results())

	h.typeText("other")
	assert.Len(t, h.requests, 1)
	assert.False(t, h.c.Visible())
}
