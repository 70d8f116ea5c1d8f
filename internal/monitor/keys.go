package monitor

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Activate   key.Binding
	Deactivate key.Binding
	Pause      key.Binding
	Suspend    key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "activate"),
		),
		Deactivate: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "deactivate"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "suspend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Activate, k.Deactivate, k.Pause, k.Suspend, k.Quit}
}
