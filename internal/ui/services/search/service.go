package search

import (
	"github.com/charmbracelet/log"

	"pathgrip/internal/domain"
	"pathgrip/internal/ui/services/events"
)

// Service owns the search cycle. It applies the engine-internal effects
// (cache writes, cancellation, failure reports) itself and hands the host
// effects (StartTimer, StopTimer, IssueRequest) back to the caller.
type Service struct {
	state     State
	bus       events.EventBus
	cache     Cache
	settings  Settings
	newHandle func(string) *Handle
}

// NewService creates a new search service
func NewService(bus events.EventBus, cache Cache, settings Settings) *Service {
	return &Service{
		bus:       bus,
		cache:     cache,
		settings:  settings,
		newHandle: NewHandle,
	}
}

// SetHandleFactory replaces how request handles are created
func (s *Service) SetHandleFactory(fn func(string) *Handle) {
	s.newHandle = fn
}

// Handle feeds ev through the state machine and returns the effects the
// host has to carry out.
func (s *Service) Handle(ev Event) []Effect {
	before := s.state
	next, fx := Transition(before, ev, Env{
		Settings:  s.settings,
		Lookup:    s.cache.Get,
		NewHandle: s.newHandle,
	})
	s.state = next

	var host []Effect
	stored := false
	for _, e := range fx {
		switch e := e.(type) {
		case CancelRequest:
			log.Debug("search: cancel request", "query", e.Handle.Query, "request", e.Handle.ID)
			e.Handle.Cancel()
		case StoreResults:
			s.cache.Add(e.Query, e.Results)
			stored = true
		case ReportFailure:
			log.Error("search: provider failed", "query", e.Handle.Query, "request", e.Handle.ID, "err", e.Err)
			s.bus.Publish(SearchFailedEvent{Query: e.Handle.Query, RequestID: e.Handle.ID, Err: e.Err})
		case IssueRequest:
			log.Debug("search: issue request", "query", e.Handle.Query, "request", e.Handle.ID)
			s.bus.Publish(SearchStartedEvent{Query: e.Handle.Query, RequestID: e.Handle.ID})
			host = append(host, e)
		default:
			host = append(host, e)
		}
	}

	if next.Generation != before.Generation {
		switch {
		case next.Phase == PhaseShowing:
			s.bus.Publish(SearchCompletedEvent{Query: next.Query, Count: len(next.Results), Cached: !stored})
		case next.Phase == PhaseIdle:
			s.bus.Publish(SearchClearedEvent{})
		}
	}

	if next.Disposed && !before.Disposed {
		s.cache.Purge()
	}

	return host
}

// InvalidateCache drops every cached answer
func (s *Service) InvalidateCache() {
	s.cache.Purge()
}

// State returns a snapshot of the search state
func (s *Service) State() State { return s.state }

// Query returns the active query
func (s *Service) Query() string { return s.state.Query }

// Results returns the current results; callers must not modify them
func (s *Service) Results() []domain.SearchResult { return s.state.Results }

// Phase returns the current phase
func (s *Service) Phase() Phase { return s.state.Phase }

// Generation changes whenever the result set is replaced
func (s *Service) Generation() uint64 { return s.state.Generation }

// Loading reports whether a request is in flight
func (s *Service) Loading() bool { return s.state.Loading() }

// Visible reports whether the dropdown should be shown
func (s *Service) Visible() bool { return s.state.Visible() }

// Disposed reports whether the service was torn down
func (s *Service) Disposed() bool { return s.state.Disposed }
