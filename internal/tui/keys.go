package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Up      key.Binding
	Down    key.Binding
	Flip    key.Binding
	Restore key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle squiggles")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Flip:    key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x/enter", "flip setting")),
		Restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore colors")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Flip, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Restore},
		{k.Up, k.Down, k.Flip},
		{k.Help, k.Quit},
	}
}
