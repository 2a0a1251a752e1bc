package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/queuify/qboard/internal/queuify"
)

func TestCallNextNoneWaiting(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusCompleted, 1),
		}},
	}
	m, client, _ := newBoardModel(t, queues)

	next, cmd := m.startCallNext()
	m = next.(Model)
	if cmd != nil {
		t.Fatal("expected no command when nobody is waiting")
	}
	if len(client.updates) != 0 {
		t.Fatalf("no writes expected, got %v", client.updates)
	}
	if !strings.Contains(m.currentToast(), "no one waiting") {
		t.Fatalf("toast = %q", m.currentToast())
	}
}

func TestCallNextStartsServingDirectly(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusCompleted, 1),
			appt(2, "Bo", queuify.StatusConfirmed, 2),
		}},
	}
	m, client, ref := newBoardModel(t, queues)

	next, cmd := m.startCallNext()
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a start-serving command")
	}
	if !m.inFlight {
		t.Fatal("inFlight should be set while the write runs")
	}

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want actionDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if len(client.updates) != 1 || client.updates[0] != (statusUpdate{id: 2, status: queuify.StatusServing}) {
		t.Fatalf("updates = %v", client.updates)
	}
	if ref.kicks != 1 {
		t.Fatalf("refresher kicks = %d, want 1", ref.kicks)
	}
}

func TestCallNextOpensResolveDialog(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, _ := newBoardModel(t, queues)

	next, cmd := m.startCallNext()
	m = next.(Model)
	if cmd != nil {
		t.Fatal("opening the dialog must not issue a command")
	}
	if len(client.updates) != 0 {
		t.Fatalf("opening the dialog must not write, got %v", client.updates)
	}

	tm, ok := m.modal.(*transitionModal)
	if !ok {
		t.Fatalf("modal = %T, want *transitionModal", m.modal)
	}
	if tm.pending.Current.ID != 1 || tm.pending.Next.ID != 2 {
		t.Fatalf("pending = %+v", tm.pending)
	}
}

func TestResolveDialogEscapeAbandons(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, _ := newBoardModel(t, queues)
	next, _ := m.startCallNext()
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if cmd != nil {
		t.Fatal("escape must not issue a command")
	}
	if m.modal != nil {
		t.Fatal("dialog should be closed after escape")
	}
	if len(client.updates) != 0 {
		t.Fatalf("abandoning must not write, got %v", client.updates)
	}
}

func TestResolveAdvancesQueue(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, ref := newBoardModel(t, queues)
	next, _ := m.startCallNext()
	m = next.(Model)

	// Select no-show, then confirm
	next, _ = m.Update(keyRune('2'))
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("confirm should issue the resolve command")
	}

	msg := cmd()
	done, ok := msg.(resolveDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want resolveDoneMsg", msg)
	}
	if done.outcome != queuify.StatusNoShow {
		t.Fatalf("done = %+v", done)
	}

	want := []statusUpdate{
		{id: 1, status: queuify.StatusNoShow},
		{id: 2, status: queuify.StatusServing},
	}
	if len(client.updates) != 2 || client.updates[0] != want[0] || client.updates[1] != want[1] {
		t.Fatalf("updates = %v, want %v", client.updates, want)
	}
	if ref.kicks != 1 {
		t.Fatalf("refresher kicks = %d, want 1", ref.kicks)
	}

	// Feeding the done message back closes the dialog
	next, _ = m.Update(done)
	m = next.(Model)
	if m.modal != nil {
		t.Fatal("dialog should close after resolveDoneMsg")
	}
}

func TestResolveFailureKeepsDialogOpen(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, _ := newBoardModel(t, queues)
	client.fail[1] = errors.New("appointment already resolved")

	next, _ := m.startCallNext()
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	msg := cmd()
	errMsg, ok := msg.(resolveErrMsg)
	if !ok {
		t.Fatalf("message = %T, want resolveErrMsg", msg)
	}

	// Nothing was written and especially not the advance
	if len(client.updates) != 0 {
		t.Fatalf("failed resolve must not advance, got %v", client.updates)
	}

	next, _ = m.Update(errMsg)
	m = next.(Model)
	tm, ok := m.modal.(*transitionModal)
	if !ok {
		t.Fatal("dialog should stay open after a failed resolve")
	}
	if tm.submitting {
		t.Fatal("dialog should accept input again after the failure")
	}
	if !strings.Contains(tm.errMsg, "already resolved") {
		t.Fatalf("errMsg = %q", tm.errMsg)
	}
}

func TestResolveAdvanceFailureKeepsDialogForRetry(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, _ := newBoardModel(t, queues)
	client.fail[2] = errors.New("boom")

	next, _ := m.startCallNext()
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	msg := cmd()
	advErr, ok := msg.(advanceErrMsg)
	if !ok {
		t.Fatalf("message = %T, want advanceErrMsg", msg)
	}
	if advErr.outcome != queuify.StatusCompleted || advErr.err == nil {
		t.Fatalf("advErr = %+v", advErr)
	}
	if len(client.updates) != 1 || client.updates[0] != (statusUpdate{id: 1, status: queuify.StatusCompleted}) {
		t.Fatalf("updates = %v", client.updates)
	}

	// The dialog must survive the failed advance and remember the call
	next, _ = m.Update(advErr)
	m = next.(Model)
	tm, ok := m.modal.(*transitionModal)
	if !ok {
		t.Fatal("dialog should stay open after a failed advance")
	}
	if !tm.resolved {
		t.Fatal("dialog should record that the outcome was written")
	}
	if tm.pending.Next.ID != 2 {
		t.Fatalf("pending next = %+v", tm.pending.Next)
	}
	if !strings.Contains(tm.errMsg, "boom") {
		t.Fatalf("errMsg = %q", tm.errMsg)
	}

	// Retry re-attempts only the advance, never the resolved outcome
	delete(client.fail, 2)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter should retry the advance")
	}
	msg = cmd()
	done, ok := msg.(resolveDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want resolveDoneMsg", msg)
	}
	want := []statusUpdate{
		{id: 1, status: queuify.StatusCompleted},
		{id: 2, status: queuify.StatusServing},
	}
	if len(client.updates) != 2 || client.updates[0] != want[0] || client.updates[1] != want[1] {
		t.Fatalf("updates = %v, want %v", client.updates, want)
	}

	next, _ = m.Update(done)
	m = next.(Model)
	if m.modal != nil {
		t.Fatal("dialog should close once the next visitor is serving")
	}
}

func TestMarkSelectedValidatesTransition(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusCompleted, 1),
		}},
	}
	m, client, _ := newBoardModel(t, queues)

	next, cmd := m.markSelected(queuify.StatusNoShow)
	m = next.(Model)
	if cmd != nil {
		t.Fatal("illegal transition must not issue a command")
	}
	if len(client.updates) != 0 {
		t.Fatalf("illegal transition must not write, got %v", client.updates)
	}
	if !strings.Contains(m.currentToast(), "cannot mark") {
		t.Fatalf("toast = %q", m.currentToast())
	}
}

func TestMarkSelectedCompletes(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
		}},
	}
	m, client, _ := newBoardModel(t, queues)

	next, cmd := m.markSelected(queuify.StatusCompleted)
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("message = %#v", msg)
	}
	if len(client.updates) != 1 || client.updates[0] != (statusUpdate{id: 1, status: queuify.StatusCompleted}) {
		t.Fatalf("updates = %v", client.updates)
	}
}

func TestActionsBlockedWhileInFlight(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
	}
	m, client, _ := newBoardModel(t, queues)
	m.inFlight = true

	next, cmd := m.startCallNext()
	m = next.(Model)
	if cmd != nil || m.modal != nil {
		t.Fatal("call next should be blocked while in flight")
	}
	next, cmd = m.markSelected(queuify.StatusCompleted)
	if cmd != nil {
		t.Fatal("mark should be blocked while in flight")
	}
	_ = next
	if len(client.updates) != 0 {
		t.Fatalf("no writes expected, got %v", client.updates)
	}
}
