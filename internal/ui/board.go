package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/state"
)

// currentQueue returns the selected queue, or nil when empty.
func (m *Model) currentQueue() *queuify.Queue {
	if m.queueIdx < 0 || m.queueIdx >= len(m.snapshot.Queues) {
		return nil
	}
	return &m.snapshot.Queues[m.queueIdx]
}

// selectedAppointment returns the selected row's appointment, or nil.
func (m *Model) selectedAppointment() *queuify.Appointment {
	q := m.currentQueue()
	if q == nil {
		return nil
	}
	if m.selectedRow < 0 || m.selectedRow >= len(q.Appointments) {
		return nil
	}
	return &q.Appointments[m.selectedRow]
}

// restoreSelection re-finds the previously selected appointment by ID after
// a refresh, falling back to clamping when it left the queue.
func (m *Model) restoreSelection(selectedID int64) {
	m.clampSelection()
	if selectedID == 0 {
		return
	}
	q := m.currentQueue()
	if q == nil {
		return
	}
	for i, appt := range q.Appointments {
		if appt.ID == selectedID {
			m.selectedRow = i
			return
		}
	}
}

// clampSelection keeps queue and row selection inside the snapshot.
func (m *Model) clampSelection() {
	if len(m.snapshot.Queues) == 0 {
		m.queueIdx = 0
		m.selectedRow = 0
		return
	}
	if m.queueIdx >= len(m.snapshot.Queues) {
		m.queueIdx = len(m.snapshot.Queues) - 1
	}
	if m.queueIdx < 0 {
		m.queueIdx = 0
	}

	q := m.snapshot.Queues[m.queueIdx]
	if len(q.Appointments) == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= len(q.Appointments) {
		m.selectedRow = len(q.Appointments) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// handleBoardKey processes keyboard input for the board view.
func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if q := m.currentQueue(); q != nil && m.selectedRow < len(q.Appointments)-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if q := m.currentQueue(); q != nil && len(q.Appointments) > 0 {
			m.selectedRow = len(q.Appointments) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.NextQueue):
		if len(m.snapshot.Queues) > 0 {
			m.queueIdx = (m.queueIdx + 1) % len(m.snapshot.Queues)
			m.selectedRow = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevQueue):
		if n := len(m.snapshot.Queues); n > 0 {
			m.queueIdx = (m.queueIdx - 1 + n) % n
			m.selectedRow = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		return m.shiftDate(-1)

	case key.Matches(msg, m.keys.NextDay):
		return m.shiftDate(1)

	case key.Matches(msg, m.keys.Today):
		m.date = time.Now().Format(queuify.DateLayout)
		m.refresher.SetDate(m.date)
		m.refresher.Kick()
		m.setToast("showing today")
		return m, nil

	case key.Matches(msg, m.keys.CallNext):
		return m.startCallNext()

	case key.Matches(msg, m.keys.Complete):
		return m.markSelected(queuify.StatusCompleted)

	case key.Matches(msg, m.keys.NoShow):
		return m.markSelected(queuify.StatusNoShow)
	}

	return m, nil
}

// shiftDate moves the board date by the given number of days.
func (m Model) shiftDate(days int) (tea.Model, tea.Cmd) {
	day, err := time.Parse(queuify.DateLayout, m.date)
	if err != nil {
		day = time.Now()
	}
	m.date = day.AddDate(0, 0, days).Format(queuify.DateLayout)
	m.refresher.SetDate(m.date)
	m.refresher.Kick()
	m.setToast("showing " + m.date)
	return m, nil
}

// renderBoard renders the live queue board.
func (m Model) renderBoard() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // header + command bar

	if m.snapshot.LastUpdated.IsZero() && m.snapshot.LastError == nil {
		msg := styles.MutedText.Render("Loading queues...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if len(m.snapshot.Queues) == 0 {
		msg := styles.MutedText.Render("No queues scheduled for " + m.date)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	var b strings.Builder
	b.WriteString(m.renderQueueTabs(styles))
	b.WriteString("\n\n")
	b.WriteString(m.renderAppointments(styles, contentHeight-3))
	return b.String()
}

// renderQueueTabs renders the queue selector line.
func (m Model) renderQueueTabs(styles Styles) string {
	tabs := make([]string, 0, len(m.snapshot.Queues))
	for i, q := range m.snapshot.Queues {
		label := fmt.Sprintf(" %s (%d) ", truncate(q.Name, 24), state.WaitingCount(q))
		if i == m.queueIdx {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// renderAppointments renders the selected queue's appointment table.
func (m Model) renderAppointments(styles Styles, maxRows int) string {
	q := m.currentQueue()
	if q == nil {
		return ""
	}

	if len(q.Appointments) == 0 {
		return styles.MutedText.Render("  No appointments in this queue")
	}

	var serving, next *queuify.Appointment
	if s, ok := state.Serving(*q); ok {
		serving = &s
	}
	if n, ok := state.Next(*q); ok {
		next = &n
	}

	nameWidth := 28
	if m.width < 100 {
		nameWidth = 18
	}

	var b strings.Builder

	// Queue summary line
	summary := fmt.Sprintf("  %s", q.Name)
	if q.ResourceName != "" {
		summary += "  ·  " + q.ResourceName
	}
	if slot := m.formatSlot(*q); slot != "" {
		summary += "  ·  " + slot
	}
	b.WriteString(styles.FaintText.Render(summary))
	b.WriteString("\n")

	header := fmt.Sprintf("  %s %s %s %s",
		padRight("TOKEN", 7),
		padRight("NAME", nameWidth),
		padRight("STATUS", 11),
		"TIME")
	b.WriteString(styles.MutedText.Bold(true).Render(header))
	b.WriteString("\n")

	rows := len(q.Appointments)
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}

	for i := 0; i < rows; i++ {
		appt := q.Appointments[i]
		b.WriteString(m.renderAppointmentRow(styles, appt, i, serving, next, nameWidth))
		b.WriteString("\n")
	}

	if rows < len(q.Appointments) {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  ... %d more", len(q.Appointments)-rows)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderAppointmentRow(styles Styles, appt queuify.Appointment, row int, serving, next *queuify.Appointment, nameWidth int) string {
	token := fmt.Sprintf("#%d", appt.Token())
	name := truncate(appt.UserName, nameWidth)
	status := appt.Status.Display()
	when := ""
	if start := appt.ParsedStartTime(); !start.IsZero() {
		when = start.Format("15:04")
	}

	marker := "  "
	switch {
	case serving != nil && appt.ID == serving.ID:
		marker = "▶ "
	case next != nil && appt.ID == next.ID:
		marker = "› "
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		marker,
		padRight(token, 7),
		padRight(name, nameWidth),
		padRight(status, 11),
		when)

	if row == m.selectedRow {
		return styles.Selected.Render(padRight(line, m.width-2))
	}
	if serving != nil && appt.ID == serving.ID {
		return styles.SuccessText.Render(line)
	}
	if !appt.Status.Known() || appt.Status == queuify.StatusUnknown {
		return styles.FaintText.Render(line)
	}
	return styles.StatusText(string(appt.Status)).Render(line)
}

// formatSlot formats the queue's slot window for display.
func (m Model) formatSlot(q queuify.Queue) string {
	start := q.ParsedSlotStart()
	end := q.ParsedSlotEnd()
	if start.IsZero() {
		return ""
	}
	if end.IsZero() {
		return start.Format("15:04")
	}
	return start.Format("15:04") + "-" + end.Format("15:04")
}
