package selection

import (
	"pathgrip/internal/ui/services/events"
)

// Next moves down with wrap-around; from None it lands on the first row.
func Next(i, n int) int {
	if n <= 0 {
		return None
	}
	if i < 0 || i >= n {
		return 0
	}
	return (i + 1) % n
}

// Prev moves up with wrap-around; from None it lands on the last row.
func Prev(i, n int) int {
	if n <= 0 {
		return None
	}
	if i < 0 || i >= n {
		return n - 1
	}
	return (i - 1 + n) % n
}

// Service tracks the highlighted dropdown row
type Service struct {
	state *State
	bus   events.EventBus
}

// NewService creates a new selection service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Index: None},
		bus:   bus,
	}
}

// Reset clears the selection for a new result set of count rows
func (s *Service) Reset(count int) {
	s.state.Index = None
	s.state.Count = count
	s.bus.Publish(SelectionResetEvent{Count: count})
}

// Move steps the selection and reports whether a row is now highlighted
func (s *Service) Move(dir Direction) bool {
	old := s.state.Index
	switch dir {
	case DirectionDown:
		s.state.Index = Next(old, s.state.Count)
	case DirectionUp:
		s.state.Index = Prev(old, s.state.Count)
	}

	if old != s.state.Index {
		s.bus.Publish(SelectionChangedEvent{OldIndex: old, NewIndex: s.state.Index})
	}
	return s.state.Index != None
}

// Select highlights row i directly, e.g. under the mouse
func (s *Service) Select(i int) bool {
	if i < 0 || i >= s.state.Count {
		return false
	}
	old := s.state.Index
	s.state.Index = i
	if old != i {
		s.bus.Publish(SelectionChangedEvent{OldIndex: old, NewIndex: i})
	}
	return true
}

// Index returns the highlighted row or None
func (s *Service) Index() int {
	return s.state.Index
}

// Selected returns the highlighted row if there is one
func (s *Service) Selected() (int, bool) {
	return s.state.Index, s.state.Index != None
}

// Count returns the number of selectable rows
func (s *Service) Count() int {
	return s.state.Count
}
