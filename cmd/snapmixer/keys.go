package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	GroupUp   key.Binding
	GroupDown key.Binding
	Left      key.Binding
	Right     key.Binding
	BigLeft   key.Binding
	BigRight  key.Binding
	Digit     key.Binding
	Mute      key.Binding
	Quit      key.Binding
	Dismiss   key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	GroupUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("⇧↑/K", "prev group")),
	GroupDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("⇧↓/J", "next group")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "quieter")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "louder")),
	BigLeft:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←/H", "much quieter")),
	BigRight:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→/L", "much louder")),
	Digit: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
		key.WithHelp("1…9/0", "10%…90%/100%"),
	),
	Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss/quit")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Mute, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GroupUp, k.GroupDown},
		{k.Left, k.Right, k.BigLeft, k.BigRight},
		{k.Digit, k.Mute},
		{k.Dismiss, k.Quit, k.Help},
	}
}

// digitPercent maps a digit key to its absolute volume; 0 means 100.
func digitPercent(s string) (float64, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if s[0] == '0' {
		return 100, true
	}
	return float64(s[0]-'0') * 10, true
}
