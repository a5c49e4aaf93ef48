package client

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the bindings of the mention input and its popover
type EditorKeyMap struct {
	Submit    key.Binding
	Newline   key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Left      key.Binding
	Right     key.Binding
	LineStart key.Binding
	LineEnd   key.Binding
	Prev      key.Binding
	Next      key.Binding
	Select    key.Binding
	Dismiss   key.Binding
}

// DefaultEditorKeyMap returns the default bindings
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("ctrl+j", "newline"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "ctrl+d"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "insert"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// PopoverHelp lists the bindings shown under the popover
func (k EditorKeyMap) PopoverHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Select, k.Dismiss}
}
