package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	Escape     key.Binding

	// Queue navigation
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	NextQueue key.Binding
	PrevQueue key.Binding

	// Date navigation
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// Queue actions
	CallNext   key.Binding
	Complete   key.Binding
	NoShow     key.Binding
	OptionOne  key.Binding
	OptionTwo  key.Binding
	OptionShow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close dialog"),
		),

		// Queue navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		NextQueue: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next queue"),
		),
		PrevQueue: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous queue"),
		),

		// Date navigation
		PrevDay: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Jump to today"),
		),

		// Queue actions
		CallNext: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c/enter", "Call next"),
		),
		Complete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Complete serving"),
		),
		NoShow: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Mark no-show"),
		),
		OptionOne: key.NewBinding(
			key.WithKeys("1", "c"),
			key.WithHelp("1", "Completed"),
		),
		OptionTwo: key.NewBinding(
			key.WithKeys("2", "n"),
			key.WithHelp("2", "No show"),
		),
		OptionShow: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}
