package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up" or "down"
}

func (a NavigateAction) Type() string { return "navigate" }

// CommitAction inserts the highlighted result
type CommitAction struct{}

func (a CommitAction) Type() string { return "commit" }

// DismissAction closes the dropdown without touching the text
type DismissAction struct{}

func (a DismissAction) Type() string { return "dismiss" }

// SubmitAction finishes the session with the current text
type SubmitAction struct {
	Text string
}

func (a SubmitAction) Type() string { return "submit" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for Esc
}

func (a QuitAction) Type() string { return "quit" }

type RescanAction struct{}

func (a RescanAction) Type() string { return "rescan" }

type CopyAction struct {
	Text string
}

func (a CopyAction) Type() string { return "copy" }

// PreviewAction opens a file in the pager
type PreviewAction struct {
	Path string
}

func (a PreviewAction) Type() string { return "preview" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }
