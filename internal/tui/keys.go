package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the secret prompt.
type KeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// HelpText returns a formatted help string for the prompt.
func (k KeyMap) HelpText() string {
	return k.Submit.Help().Key + " " + k.Submit.Help().Desc + " " + SymbolBullet + " " +
		k.Cancel.Help().Key + " " + k.Cancel.Help().Desc
}
