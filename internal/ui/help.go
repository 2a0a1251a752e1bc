package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSection groups related bindings under a heading. Labels come from
// the bindings themselves so the overlay stays in sync with the keymap.
type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections returns the overlay contents for the current view.
func (m Model) helpSections() []helpSection {
	general := helpSection{
		title: "General",
		bindings: []key.Binding{
			m.keys.CycleTheme,
			m.keys.Help,
			m.keys.Quit,
		},
	}

	if m.track {
		return []helpSection{
			{
				title:    "Tracking",
				bindings: []key.Binding{m.keys.Refresh},
			},
			general,
		}
	}

	return []helpSection{
		{
			title: "Navigation",
			bindings: []key.Binding{
				m.keys.Up,
				m.keys.Down,
				m.keys.Top,
				m.keys.Bottom,
				m.keys.NextQueue,
				m.keys.PrevQueue,
			},
		},
		{
			title: "Date",
			bindings: []key.Binding{
				m.keys.PrevDay,
				m.keys.NextDay,
				m.keys.Today,
			},
		},
		{
			title: "Queue actions",
			bindings: []key.Binding{
				m.keys.CallNext,
				m.keys.Complete,
				m.keys.NoShow,
				m.keys.Refresh,
			},
		},
		general,
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	sections := m.helpSections()

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(42)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
