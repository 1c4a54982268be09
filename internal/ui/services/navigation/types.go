package navigation

// State is the visible window over the dropdown rows
type State struct {
	Offset int // first visible row
	Height int // rows that fit in the panel
	Count  int // rows in the result set
}

// Event types for viewport changes
type ViewportChangedEvent struct {
	Offset int
	Height int
}
