package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Check  key.Binding
	Cycle  key.Binding
	Filter key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Check: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "check first unchecked AC"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle status"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
