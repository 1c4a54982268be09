package selection

// None is the index of "no explicit selection"
const None = -1

// State holds selection state
type State struct {
	Index int // None or a row in [0, Count)
	Count int // rows in the current result set
}

// Direction is a keyboard movement through the dropdown
type Direction int

const (
	DirectionDown Direction = iota
	DirectionUp
)

// Event types
type SelectionChangedEvent struct {
	OldIndex int
	NewIndex int
}

type SelectionResetEvent struct {
	Count int
}
