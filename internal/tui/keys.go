package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the main screen.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Mount   key.Binding
	Unmount key.Binding
	Refresh key.Binding
	Path    key.Binding
	Quit    key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next"),
	),
	Mount: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mount"),
	),
	Unmount: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unmount"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Path: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "mount path"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// PathKeys are active while the mount path is being edited.
type PathKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

var pathKeys = PathKeys{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "set path"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mount, k.Unmount, k.Refresh, k.Path, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k PathKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Quit}
}

func (k PathKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
