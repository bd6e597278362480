package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	ToggleView            key.Binding
	Add, Edit, Delete     key.Binding
	Move, Drop, Cancel    key.Binding
	Refresh, Quit         key.Binding

	Confirm, Deny key.Binding

	Submit, NextField, PrevField key.Binding
	StatusPrev, StatusNext       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	ToggleView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board/list")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Move:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	Drop:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
	Deny:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),

	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	StatusPrev: key.NewBinding(key.WithKeys("ctrl+left", "["), key.WithHelp("[", "status")),
	StatusNext: key.NewBinding(key.WithKeys("ctrl+right", "]"), key.WithHelp("]", "status")),
}

func (k keyMap) boardHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Move, k.ToggleView, k.Refresh, k.Quit}
}

func (k keyMap) dragHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Cancel}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.StatusNext, k.Cancel}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny}
}
