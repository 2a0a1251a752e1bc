package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/state"
)

// startCallNext advances the selected queue. Depending on the snapshot this
// either starts serving the head of line directly, or opens the resolve
// dialog when someone is still at the counter.
func (m Model) startCallNext() (tea.Model, tea.Cmd) {
	if m.inFlight {
		m.setToast("previous action still in progress")
		return m, nil
	}
	q := m.currentQueue()
	if q == nil {
		return m, nil
	}

	decision := state.DecideCallNext(*q)
	switch decision.Action {
	case state.ActionNoneWaiting:
		m.setToast("no one waiting in " + q.Name)
		return m, nil

	case state.ActionStartServing:
		m.inFlight = true
		return m, m.startServingCmd(decision.Next)

	case state.ActionResolveServing:
		pending := state.PendingTransition{
			QueueID:   q.ID,
			QueueName: q.Name,
			Current:   decision.Current,
			Next:      decision.Next,
		}
		m.modal = newTransitionModal(pending, m.resolveCmd, m.advanceCmd)
		return m, nil
	}

	return m, nil
}

// markSelected applies a terminal status to the selected appointment without
// advancing the line. Used for the direct complete and no-show keys.
func (m Model) markSelected(target queuify.Status) (tea.Model, tea.Cmd) {
	if m.inFlight {
		m.setToast("previous action still in progress")
		return m, nil
	}
	appt := m.selectedAppointment()
	if appt == nil {
		return m, nil
	}
	if !queuify.CanTransition(appt.Status, target) {
		m.setToast(fmt.Sprintf("cannot mark %s as %s", appt.Status.Display(), target.Display()))
		return m, nil
	}

	m.inFlight = true
	id := appt.ID
	name := appt.UserName
	return m, func() tea.Msg {
		if err := m.client.UpdateAppointmentStatus(m.ctx, id, target); err != nil {
			return actionDoneMsg{err: err}
		}
		m.announce(id, target)
		m.refresher.Kick()
		return actionDoneMsg{note: fmt.Sprintf("marked %s %s", name, target.Display())}
	}
}

// startServingCmd transitions the head of line straight to serving.
func (m Model) startServingCmd(next queuify.Appointment) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.UpdateAppointmentStatus(m.ctx, next.ID, queuify.StatusServing); err != nil {
			return actionDoneMsg{err: err}
		}
		m.announce(next.ID, queuify.StatusServing)
		m.refresher.Kick()
		return actionDoneMsg{note: fmt.Sprintf("now serving %s (#%d)", next.UserName, next.Token())}
	}
}

// resolveCmd performs the two-step advance: resolve the serving appointment
// with the chosen outcome, then call the next visitor. The outcome write
// goes first; if it fails nothing else happens and the dialog stays open
// untouched. If only the second write fails the dialog also stays, flipped
// to its resolved state so a retry re-attempts just the advance.
func (m Model) resolveCmd(pending state.PendingTransition, outcome queuify.Status) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.UpdateAppointmentStatus(m.ctx, pending.Current.ID, outcome); err != nil {
			return resolveErrMsg{err: err}
		}
		m.announce(pending.Current.ID, outcome)
		return m.advanceCmd(pending, outcome)()
	}
}

// advanceCmd calls the next visitor for an already-resolved transition.
func (m Model) advanceCmd(pending state.PendingTransition, outcome queuify.Status) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.UpdateAppointmentStatus(m.ctx, pending.Next.ID, queuify.StatusServing); err != nil {
			m.refresher.Kick()
			return advanceErrMsg{outcome: outcome, err: err}
		}
		m.announce(pending.Next.ID, queuify.StatusServing)
		m.refresher.Kick()
		return resolveDoneMsg{
			outcome:  outcome,
			nextName: fmt.Sprintf("%s (#%d)", pending.Next.UserName, pending.Next.Token()),
		}
	}
}

// announce broadcasts a status change over the socket so other boards
// re-fetch promptly. Best effort; the periodic refresh covers a dead socket.
func (m Model) announce(appointmentID int64, status queuify.Status) {
	if m.sock == nil {
		return
	}
	m.sock.Announce(appointmentID, status, m.orgID)
}
