package chat

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Oldest   key.Binding
	Bottom   key.Binding
	Backlog  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		LineUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Oldest: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "oldest loaded"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "jump to bottom"),
		),
		Backlog: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "jump to unread"),
		),
	}
}
