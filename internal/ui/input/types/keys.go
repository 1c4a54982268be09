package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding the prompt reacts to
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Commit  key.Binding
	Dismiss key.Binding
	Preview key.Binding
	Submit  key.Binding
	Copy    key.Binding
	Rescan  key.Binding
	Help    key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "next"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter/tab", "insert"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close list"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "preview"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "rescan"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+g"),
			key.WithHelp("f1", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Commit, k.Copy, k.Help, k.Cancel}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Commit, k.Dismiss, k.Preview},
		{k.Submit, k.Copy, k.Rescan, k.Help, k.Cancel, k.Quit},
	}
}

// DropdownHelp is the short help shown while the list is open
func (k KeyMap) DropdownHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Commit, k.Dismiss, k.Preview}
}
