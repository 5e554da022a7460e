package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the picker.
// Navigation and filtering are handled by the embedded list.
type KeyMap struct {
	Select    key.Binding // Choose the highlighted task
	Quit      key.Binding // Cancel without choosing
	Escape    key.Binding // Clear filter, or cancel
	ForceQuit key.Binding // Cancel from any state
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}
