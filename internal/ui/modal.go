package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/state"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool
// indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// resolveFunc builds the command that writes the chosen outcome and then
// calls the next visitor.
type resolveFunc func(pending state.PendingTransition, outcome queuify.Status) tea.Cmd

// advanceFunc builds the command that only calls the next visitor, for
// retries after the outcome was already written.
type advanceFunc func(pending state.PendingTransition, outcome queuify.Status) tea.Cmd

// transitionModal asks the operator what happened to the serving appointment
// before the queue advances. Escape abandons the advance without writing
// anything. Once the outcome write has succeeded the modal flips to a
// resolved state: the selection is locked and enter retries only the
// call-next write.
type transitionModal struct {
	pending    state.PendingTransition
	resolve    resolveFunc
	advance    advanceFunc
	selected   int // 0 = completed, 1 = no_show
	submitting bool
	resolved   bool
	errMsg     string
}

func newTransitionModal(pending state.PendingTransition, resolve resolveFunc, advance advanceFunc) *transitionModal {
	return &transitionModal{pending: pending, resolve: resolve, advance: advance}
}

func (t *transitionModal) outcome() queuify.Status {
	if t.selected == 1 {
		return queuify.StatusNoShow
	}
	return queuify.StatusCompleted
}

// Update implements Modal.
func (t *transitionModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case resolveErrMsg:
		t.submitting = false
		t.errMsg = msg.err.Error()
		return t, nil, false

	case advanceErrMsg:
		// The outcome is written; only the call-next write is outstanding.
		t.submitting = false
		t.resolved = true
		t.errMsg = msg.err.Error()
		return t, nil, false

	case tea.KeyMsg:
		if t.submitting {
			// Ignore input while the writes are in flight
			return t, nil, false
		}

		switch {
		case key.Matches(msg, keys.Escape):
			// No status was written (or the outcome already stuck); the
			// next snapshot shows whatever the backend has.
			return t, nil, true

		case key.Matches(msg, keys.OptionOne):
			if !t.resolved {
				t.selected = 0
			}
			return t, nil, false

		case key.Matches(msg, keys.OptionTwo):
			if !t.resolved {
				t.selected = 1
			}
			return t, nil, false

		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			if !t.resolved {
				t.selected = 1 - t.selected
			}
			return t, nil, false

		case key.Matches(msg, keys.OptionShow):
			t.submitting = true
			t.errMsg = ""
			if t.resolved {
				return t, t.advance(t.pending, t.outcome()), false
			}
			return t, t.resolve(t.pending, t.outcome()), false
		}
	}

	return t, nil, false
}

// View implements Modal.
func (t *transitionModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 3)

	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Resolve current visitor"))
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Render(fmt.Sprintf("%s is still being served in %s.",
		t.pending.Current.UserName, t.pending.QueueName)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("What happened to #%d before calling #%d (%s)?",
		t.pending.Current.Token(), t.pending.Next.Token(), t.pending.Next.UserName)))
	b.WriteString("\n\n")

	b.WriteString(t.renderOption(styles, 0, "1", "Completed", "visit finished normally"))
	b.WriteString("\n")
	b.WriteString(t.renderOption(styles, 1, "2", "No Show", "visitor never turned up"))
	b.WriteString("\n\n")

	switch {
	case t.submitting:
		b.WriteString(styles.WarningText.Render("Updating..."))
	case t.resolved:
		b.WriteString(styles.SuccessText.Render(fmt.Sprintf("Marked %s.", t.outcome().Display())))
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(truncate("Calling next failed: "+t.errMsg, 60)))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("enter retry calling #%d  ·  esc close", t.pending.Next.Token())))
	case t.errMsg != "":
		b.WriteString(styles.DangerText.Render(truncate(t.errMsg, 60)))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("enter retry  ·  esc abandon"))
	default:
		b.WriteString(styles.FaintText.Render("enter confirm  ·  esc abandon"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}

func (t *transitionModal) renderOption(styles Styles, idx int, digit, label, hint string) string {
	line := fmt.Sprintf(" [%s] %s  %s ", digit, padRight(label, 10), hint)
	if idx == t.selected {
		return styles.Selected.Bold(true).Render(line)
	}
	return styles.MutedText.Render(line)
}
