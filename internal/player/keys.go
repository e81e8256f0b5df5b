package player

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Back    key.Binding
	Forward key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Loop    key.Binding
	Export  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek back")),
		Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek forward")),
		Slower:  key.NewBinding(key.WithKeys("-", "down"), key.WithHelp("-", "slower")),
		Faster:  key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+", "faster")),
		Loop:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "loop")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Loop},
		{k.Back, k.Forward},
		{k.Slower, k.Faster},
		{k.Export, k.Help, k.Quit},
	}
}
