package navigation

import (
	"pathgrip/internal/ui/services/events"
)

// Service keeps the highlighted dropdown row inside the visible window
type Service struct {
	state *State
	bus   events.EventBus
}

// NewService creates a new navigation service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{Height: 1},
		bus:   bus,
	}
}

// Reset scrolls back to the top for a result set of count rows
func (s *Service) Reset(count int) {
	s.state.Count = count
	s.setOffset(0)
}

// SetHeight updates how many rows the panel shows
func (s *Service) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	if height == s.state.Height {
		return
	}
	s.state.Height = height
	s.setOffset(s.clampOffset(s.state.Offset))
}

// Follow scrolls so that row index is visible. A negative index leaves
// the window alone.
func (s *Service) Follow(index int) {
	if index < 0 {
		return
	}
	switch {
	case index < s.state.Offset:
		s.setOffset(index)
	case index >= s.state.Offset+s.state.Height:
		s.setOffset(index - s.state.Height + 1)
	}
}

// Window returns the half-open range of visible rows
func (s *Service) Window() (start, end int) {
	start = s.state.Offset
	end = start + s.state.Height
	if end > s.state.Count {
		end = s.state.Count
	}
	return start, end
}

// RowAt maps a line inside the visible window to a result index
func (s *Service) RowAt(line int) (int, bool) {
	start, end := s.Window()
	i := start + line
	if line < 0 || i >= end {
		return 0, false
	}
	return i, true
}

// GetViewportOffset returns the first visible row
func (s *Service) GetViewportOffset() int {
	return s.state.Offset
}

func (s *Service) clampOffset(offset int) int {
	maxOffset := s.state.Count - s.state.Height
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (s *Service) setOffset(offset int) {
	if offset == s.state.Offset {
		return
	}
	s.state.Offset = offset
	s.bus.Publish(ViewportChangedEvent{
		Offset: s.state.Offset,
		Height: s.state.Height,
	})
}
