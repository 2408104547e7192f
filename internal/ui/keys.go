package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Pause      key.Binding
	Reverse    key.Binding
	Loop       key.Binding
	ResetLoop  key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Reverse:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		Loop:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loop")),
		ResetLoop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear loop")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/-", "volume")),
		VolumeDown: key.NewBinding(key.WithKeys("-", "down")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reverse, k.Loop, k.ResetLoop, k.VolumeUp, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func isQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, newKeyMap().Quit)
}

const mouseHelp = "left click loop start  right click loop end"
