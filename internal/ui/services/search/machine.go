package search

import (
	"strings"
	"unicode/utf8"

	"pathgrip/internal/domain"
)

// Env supplies what Transition reads from the outside world
type Env struct {
	Settings  Settings
	Lookup    func(query string) ([]domain.SearchResult, bool)
	NewHandle func(query string) *Handle
}

func (e Env) lookup(q string) ([]domain.SearchResult, bool) {
	if e.Lookup == nil {
		return nil, false
	}
	return e.Lookup(q)
}

func (e Env) handle(q string) *Handle {
	if e.NewHandle == nil {
		return NewHandle(q)
	}
	return e.NewHandle(q)
}

// Transition computes the next state for ev together with the effects the
// caller has to carry out. It never performs I/O itself.
func Transition(s State, ev Event, env Env) (State, []Effect) {
	if s.Disposed {
		return s, nil
	}

	switch ev := ev.(type) {
	case QueryChanged:
		return queryChanged(s, ev, env)

	case TimerFired:
		if ev.ID == 0 || ev.ID != s.TimerID {
			return s, nil
		}
		s.TimerID = 0

		var fx []Effect
		if s.Pending != nil {
			fx = append(fx, CancelRequest{Handle: s.Pending})
		}
		s.Pending = env.handle(s.Query)
		s.Phase = PhaseLoading
		return s, append(fx, IssueRequest{Handle: s.Pending})

	case RequestResolved:
		if !s.owns(ev.Handle) {
			return s, nil
		}
		s.Pending = nil
		s.Results = ev.Results
		s.Generation++
		s.Phase = PhaseShowing
		return s, []Effect{StoreResults{Query: ev.Handle.Query, Results: ev.Results}}

	case RequestFailed:
		if !s.owns(ev.Handle) {
			return s, nil
		}
		s.Pending = nil
		s = s.clearResults()
		s.Phase = PhaseError
		s.LastErr = ev.Err
		return s, []Effect{ReportFailure{Handle: ev.Handle, Err: ev.Err}}

	case Dismissed:
		return s.reset()

	case Disposed:
		s, fx := s.reset()
		s.Disposed = true
		return s, fx
	}

	return s, nil
}

func queryChanged(s State, ev QueryChanged, env Env) (State, []Effect) {
	q := strings.TrimSpace(ev.Token.Text)

	if utf8.RuneCountInString(q) < env.Settings.MinQueryLength {
		return s.reset()
	}
	if q == s.Query {
		return s, nil
	}

	s, fx := s.stop()
	s.Query = q
	s.LastErr = nil

	if results, ok := env.lookup(q); ok {
		s.Results = results
		s.Generation++
		s.Phase = PhaseShowing
		return s, fx
	}

	s.Seq++
	s.TimerID = s.Seq
	s.Phase = PhaseDebouncing
	return s, append(fx, StartTimer{ID: s.TimerID, Query: q, Delay: env.Settings.Debounce})
}

// owns reports whether h is the live pending request
func (s State) owns(h *Handle) bool {
	return h != nil && !h.Cancelled() && h == s.Pending
}

// stop cancels the pending request and disarms the timer
func (s State) stop() (State, []Effect) {
	var fx []Effect
	if s.Pending != nil {
		fx = append(fx, CancelRequest{Handle: s.Pending})
		s.Pending = nil
	}
	if s.TimerID != 0 {
		fx = append(fx, StopTimer{ID: s.TimerID})
		s.TimerID = 0
	}
	return s, fx
}

func (s State) clearResults() State {
	if s.Results != nil {
		s.Results = nil
		s.Generation++
	}
	return s
}

// reset returns to idle with no query
func (s State) reset() (State, []Effect) {
	s, fx := s.stop()
	s = s.clearResults()
	s.Query = ""
	s.LastErr = nil
	s.Phase = PhaseIdle
	return s, fx
}
