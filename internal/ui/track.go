package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/state"
)

// renderTrack renders the end-user queue position view.
func (m Model) renderTrack() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2

	if !m.snapshot.HasTrack {
		msg := styles.MutedText.Render(fmt.Sprintf("Looking up appointment %d...", m.trackID))
		if m.snapshot.LastError != nil {
			msg = styles.DangerText.Render(truncate(m.snapshot.LastError.Error(), m.width-8))
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	qs := m.snapshot.Track
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 4)

	var content string
	switch {
	case qs.Status == queuify.StatusCompleted:
		content = m.renderTrackDone(styles, qs)
	case qs.Status == queuify.StatusCancelled:
		content = m.renderTrackCancelled(styles, qs)
	default:
		content = m.renderTrackLive(styles, qs)
	}

	return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, box.Render(content))
}

func (m Model) renderTrackDone(styles Styles, qs queuify.QueueStatus) string {
	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("✓ Visit complete"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Thanks for coming. You can close this window."))
	return b.String()
}

func (m Model) renderTrackCancelled(styles Styles, qs queuify.QueueStatus) string {
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Appointment cancelled"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("This appointment is no longer in the queue."))
	return b.String()
}

func (m Model) renderTrackLive(styles Styles, qs queuify.QueueStatus) string {
	var b strings.Builder

	if state.BeingServed(qs) {
		b.WriteString(styles.SuccessText.Render("▶ IT'S YOUR TURN"))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render(fmt.Sprintf("Please proceed to the counter (number %d).", qs.MyRank)))
		return b.String()
	}

	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Your number: %d", qs.MyRank)))
	b.WriteString("\n\n")

	if qs.CurrentServingNumber > 0 {
		b.WriteString(styles.Text.Render(fmt.Sprintf("Now serving   %d", qs.CurrentServingNumber)))
		b.WriteString("\n")
	}
	b.WriteString(styles.Text.Render(fmt.Sprintf("People ahead  %d", qs.PeopleAhead)))
	b.WriteString("\n")
	if qs.EstimatedWaitMinutes > 0 {
		b.WriteString(styles.Text.Render(fmt.Sprintf("Est. wait     ~%d min", qs.EstimatedWaitMinutes)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Status: " + qs.Status.Display()))
	if !qs.Status.Known() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Status not recognized; showing last known position."))
	}
	return b.String()
}
