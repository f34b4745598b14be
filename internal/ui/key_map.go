package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	nextField  key.Binding
	prevField  key.Binding
	submit     key.Binding
	switchForm key.Binding
	record     key.Binding
	play       key.Binding
	remove     key.Binding
	logout     key.Binding
	save       key.Binding
	cancel     key.Binding
	quit       key.Binding
	forceQuit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		nextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		switchForm: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "login/sign up")),
		record:     key.NewBinding(key.WithKeys("r", " "), key.WithHelp("r/space", "record/stop")),
		play:       key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter", "play/stop")),
		remove:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		save:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play},
		{k.record, k.remove, k.logout},
		{k.save, k.cancel, k.quit},
	}
}
