package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open the focused message
	Open key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Selection
	Toggle    key.Binding
	SelectAll key.Binding

	// Message actions
	Star        key.Binding
	MarkRead    key.Binding
	MarkUnread  key.Binding
	Delete      key.Binding
	AddLabel    key.Binding
	RemoveLabel key.Binding
	Compose     key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open message"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "select all"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "mark read"),
		),
		MarkUnread: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "mark unread"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		AddLabel: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "add label"),
		),
		RemoveLabel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "remove label"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compose"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Toggle, k.Star, k.Delete, k.Compose,
		k.Command, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Quit},
		{k.Toggle, k.SelectAll, k.Star, k.MarkRead, k.MarkUnread},
		{k.Delete, k.AddLabel, k.RemoveLabel, k.Compose},
		{k.Command, k.Help, k.Refresh},
	}
}
