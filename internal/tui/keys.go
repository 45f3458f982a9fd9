package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Restart    key.Binding
	Difficulty key.Binding
	Retry      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Restart: key.NewBinding(
			key.WithKeys("esc", "ctrl+r"),
			key.WithHelp("esc", "new text"),
		),
		Difficulty: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "difficulty"),
		),
		Retry: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "try again"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Difficulty, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Difficulty, k.Restart, k.Retry, k.Quit}}
}

func (k keyMap) resultsHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Difficulty, k.Quit}
}
