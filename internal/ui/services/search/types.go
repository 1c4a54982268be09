package search

import (
	"time"

	"pathgrip/internal/domain"
)

// Phase is where the search cycle currently is
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseLoading
	PhaseShowing
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseLoading:
		return "loading"
	case PhaseShowing:
		return "showing"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// State holds the search cycle state
type State struct {
	Phase      Phase
	Query      string // active trimmed query, empty when idle
	Results    []domain.SearchResult
	Pending    *Handle // the only request whose outcome may be applied
	TimerID    uint64  // armed debounce timer, 0 when none
	Seq        uint64  // last timer id handed out
	Generation uint64  // bumped whenever Results is replaced
	LastErr    error
	Disposed   bool
}

// Loading reports whether a request is in flight
func (s State) Loading() bool { return s.Pending != nil }

// Visible is the derived dropdown visibility
func (s State) Visible() bool {
	return s.Query != "" && (len(s.Results) > 0 || s.Loading())
}

// Settings are the tunables of the search cycle
type Settings struct {
	MinQueryLength int
	Debounce       time.Duration
}

// Event is an input to Transition
type Event interface{ searchEvent() }

// QueryChanged is sent whenever the token under the cursor may have changed
type QueryChanged struct{ Token domain.Token }

// TimerFired is sent when the debounce timer with ID elapses
type TimerFired struct{ ID uint64 }

// RequestResolved carries a provider answer
type RequestResolved struct {
	Handle  *Handle
	Results []domain.SearchResult
}

// RequestFailed carries a provider error
type RequestFailed struct {
	Handle *Handle
	Err    error
}

// Dismissed ends the current cycle (Escape or a commit)
type Dismissed struct{}

// Disposed tears the engine down; later events are ignored
type Disposed struct{}

func (QueryChanged) searchEvent()    {}
func (TimerFired) searchEvent()      {}
func (RequestResolved) searchEvent() {}
func (RequestFailed) searchEvent()   {}
func (Dismissed) searchEvent()       {}
func (Disposed) searchEvent()        {}

// Effect is an action Transition asks its caller to perform
type Effect interface{ searchEffect() }

// StartTimer arms a debounce timer that must come back as TimerFired{ID}
type StartTimer struct {
	ID    uint64
	Query string
	Delay time.Duration
}

// StopTimer disarms a timer; hosts that check ids may ignore it
type StopTimer struct{ ID uint64 }

// IssueRequest asks for a provider call bound to Handle
type IssueRequest struct{ Handle *Handle }

// CancelRequest triggers a handle's cancellation
type CancelRequest struct{ Handle *Handle }

// StoreResults puts an answer into the cache
type StoreResults struct {
	Query   string
	Results []domain.SearchResult
}

// ReportFailure records a provider failure
type ReportFailure struct {
	Handle *Handle
	Err    error
}

func (StartTimer) searchEffect()    {}
func (StopTimer) searchEffect()     {}
func (IssueRequest) searchEffect()  {}
func (CancelRequest) searchEffect() {}
func (StoreResults) searchEffect()  {}
func (ReportFailure) searchEffect() {}

// Bus event types
type SearchStartedEvent struct {
	Query     string
	RequestID string
}

type SearchCompletedEvent struct {
	Query  string
	Count  int
	Cached bool
}

type SearchFailedEvent struct {
	Query     string
	RequestID string
	Err       error
}

type SearchClearedEvent struct{}
