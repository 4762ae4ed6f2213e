package console

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Approve key.Binding
	Deny    key.Binding
	Submit  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Approve: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "approve")),
	Deny:    key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "deny")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
