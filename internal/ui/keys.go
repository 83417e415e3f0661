package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the app
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Enter          key.Binding
	SelectAppImage key.Binding
	SelectIcon     key.Binding
	ClearIcon      key.Binding
	Create         key.Binding
	Install        key.Binding
	Help           key.Binding
	Quit           key.Binding
	Escape         key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		SelectAppImage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "select AppImage"),
		),
		SelectIcon: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "select icon"),
		),
		ClearIcon: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear icon"),
		),
		Create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create entry"),
		),
		Install: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "install globally"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns keybindings to show in short help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectAppImage, k.SelectIcon, k.Create, k.Help, k.Quit}
}

// FullHelp returns all keybindings for full help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Left, k.Right, k.Enter},
		// Registration
		{k.SelectAppImage, k.SelectIcon, k.ClearIcon, k.Create},
		// General
		{k.Install, k.Help, k.Escape, k.Quit},
	}
}
