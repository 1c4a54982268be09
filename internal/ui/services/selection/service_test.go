package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathgrip/internal/ui/services/events"
)

func TestNextPrev_Wrap(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int, int) int
		i, n int
		want int
	}{
		{"down from none", Next, None, 3, 0},
		{"down", Next, 0, 3, 1},
		{"down wraps", Next, 2, 3, 0},
		{"up from none", Prev, None, 3, 2},
		{"up", Prev, 2, 3, 1},
		{"up wraps", Prev, 0, 3, 2},
		{"empty down", Next, None, 0, None},
		{"empty up", Prev, 0, 0, None},
		{"single row stays", Next, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.i, tt.n))
		})
	}
}

func TestService_MoveAndReset(t *testing.T) {
	bus := events.NewBus()
	var changes []SelectionChangedEvent
	bus.Subscribe(events.TypeOf(SelectionChangedEvent{}), func(e interface{}) {
		changes = append(changes, e.(SelectionChangedEvent))
	})

	s := NewService(bus)
	assert.Equal(t, None, s.Index())

	s.Reset(3)
	require.True(t, s.Move(DirectionUp))
	assert.Equal(t, 2, s.Index())
	require.True(t, s.Move(DirectionDown))
	assert.Equal(t, 0, s.Index())

	s.Reset(5)
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, 5, s.Count())

	assert.Equal(t, []SelectionChangedEvent{{None, 2}, {2, 0}}, changes)
}

func TestService_MoveOnEmptySet(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.Reset(0)
	assert.False(t, s.Move(DirectionDown))
	assert.Equal(t, None, s.Index())
}

func TestService_Select(t *testing.T) {
	s := NewService(&events.NullBus{})
	s.Reset(2)

	assert.False(t, s.Select(2))
	assert.True(t, s.Select(1))
	i, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}
