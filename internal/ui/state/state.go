package state

// AppState contains the host state that lives outside the autocomplete
// engine.
type AppState struct {
	// Terminal size
	Width  int
	Height int

	// Index state
	Roots        []string
	Scanning     bool
	IndexedFiles int
	ConfigPath   string

	// UI state
	Ready         bool
	StatusMessage string // status bar message
	LastError     string
	SpinnerFrame  int

	// Outcome
	Submitted bool
	Cancelled bool
	Result    string
}

// NewAppState creates a new application state
func NewAppState(roots []string) *AppState {
	return &AppState{
		Roots: append([]string(nil), roots...),
	}
}

// SetStatus replaces the status message and clears the last error
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.LastError = ""
}

// SetError shows err in the status bar
func (s *AppState) SetError(msg string) {
	s.LastError = msg
}

// Finish records how the session ended
func (s *AppState) Finish(text string, submitted bool) {
	s.Result = text
	s.Submitted = submitted
	s.Cancelled = !submitted
}
