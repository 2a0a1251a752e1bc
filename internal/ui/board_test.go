package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/state"
)

type fakeRefresher struct {
	kicks int
	dates []string
}

func (f *fakeRefresher) Kick()            { f.kicks++ }
func (f *fakeRefresher) SetDate(d string) { f.dates = append(f.dates, d) }

type statusUpdate struct {
	id     int64
	status queuify.Status
}

type fakeClient struct {
	updates []statusUpdate
	fail    map[int64]error
}

func (f *fakeClient) FetchLiveQueue(ctx context.Context, date string) ([]queuify.Queue, error) {
	return nil, nil
}

func (f *fakeClient) UpdateAppointmentStatus(ctx context.Context, id int64, status queuify.Status) error {
	if err := f.fail[id]; err != nil {
		return err
	}
	f.updates = append(f.updates, statusUpdate{id: id, status: status})
	return nil
}

func (f *fakeClient) FetchQueueStatus(ctx context.Context, id int64) (*queuify.QueueStatus, error) {
	return nil, nil
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func appt(id int64, name string, status queuify.Status, token int) queuify.Appointment {
	return queuify.Appointment{ID: id, UserName: name, Status: status, TokenNumber: token}
}

func newBoardModel(t *testing.T, queues []queuify.Queue) (Model, *fakeClient, *fakeRefresher) {
	t.Helper()
	client := &fakeClient{fail: map[int64]error{}}
	ref := &fakeRefresher{}
	m := New(Options{
		Context:   context.Background(),
		Client:    client,
		Store:     &state.Store{},
		Refresher: ref,
		OrgID:     "org-1",
		Date:      "2026-03-02",
	})
	m.ready = true
	m.width = 120
	m.height = 40
	m.snapshot = state.Snapshot{Queues: queues, LastUpdated: time.Now()}
	return m, client, ref
}

func TestBoardNavigationBounds(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusPending, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
		}},
		{ID: 2, Name: "Desk B", Appointments: []queuify.Appointment{
			appt(3, "Cy", queuify.StatusPending, 1),
		}},
	}
	m, _, _ := newBoardModel(t, queues)

	next, _ := m.handleBoardKey(keyRune('j'))
	m = next.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("after j: selectedRow = %d, want 1", m.selectedRow)
	}

	// Already at bottom
	next, _ = m.handleBoardKey(keyRune('j'))
	m = next.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("j at bottom moved to %d", m.selectedRow)
	}

	next, _ = m.handleBoardKey(keyRune('g'))
	m = next.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("after g: selectedRow = %d, want 0", m.selectedRow)
	}

	next, _ = m.handleBoardKey(keyRune('G'))
	m = next.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("after G: selectedRow = %d, want 1", m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.queueIdx != 1 || m.selectedRow != 0 {
		t.Fatalf("after tab: queueIdx = %d selectedRow = %d, want 1, 0", m.queueIdx, m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.queueIdx != 0 {
		t.Fatalf("tab should wrap to first queue, got %d", m.queueIdx)
	}
}

func TestBoardNavigationArrowKeys(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusPending, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
			appt(3, "Cy", queuify.StatusPending, 3),
		}},
	}
	m, _, _ := newBoardModel(t, queues)

	next, _ := m.handleBoardKey(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("after down: selectedRow = %d, want 1", m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("after up: selectedRow = %d, want 0", m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyEnd})
	m = next.(Model)
	if m.selectedRow != 2 {
		t.Fatalf("after end: selectedRow = %d, want 2", m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyHome})
	m = next.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("after home: selectedRow = %d, want 0", m.selectedRow)
	}

	next, _ = m.handleBoardKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	if m.queueIdx != 0 {
		t.Fatalf("shift+tab on single queue changed queueIdx to %d", m.queueIdx)
	}
}

func TestHelpOverlayListsBindings(t *testing.T) {
	m, _, _ := newBoardModel(t, nil)
	m.showHelp = true
	out := m.renderHelp()

	for _, section := range m.helpSections() {
		for _, binding := range section.bindings {
			h := binding.Help()
			if !strings.Contains(out, h.Desc) {
				t.Errorf("help overlay missing %q (%s)", h.Desc, h.Key)
			}
		}
	}
	if !strings.Contains(out, "shift+tab") {
		t.Errorf("help overlay missing key label shift+tab")
	}
}

func TestRestoreSelectionByID(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(10, "Ada", queuify.StatusPending, 1),
			appt(11, "Bo", queuify.StatusPending, 2),
			appt(12, "Cy", queuify.StatusPending, 3),
		}},
	}
	m, _, _ := newBoardModel(t, queues)
	m.selectedRow = 2 // Cy

	// Ada left the queue; Cy should stay selected at its new row.
	refreshed := state.Snapshot{Queues: []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(11, "Bo", queuify.StatusPending, 2),
			appt(12, "Cy", queuify.StatusPending, 3),
		}},
	}}
	next, _ := m.Update(snapshotMsg(refreshed))
	m = next.(Model)
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1 (appointment 12)", m.selectedRow)
	}

	// Selected appointment disappears entirely: clamp
	refreshed = state.Snapshot{Queues: []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(11, "Bo", queuify.StatusPending, 2),
		}},
	}}
	next, _ = m.Update(snapshotMsg(refreshed))
	m = next.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want clamped 0", m.selectedRow)
	}
}

func TestShiftDate(t *testing.T) {
	m, _, ref := newBoardModel(t, nil)

	next, _ := m.handleBoardKey(keyRune('['))
	m = next.(Model)
	if m.date != "2026-03-01" {
		t.Fatalf("date after [ = %q, want 2026-03-01", m.date)
	}
	next, _ = m.handleBoardKey(keyRune(']'))
	m = next.(Model)
	if m.date != "2026-03-02" {
		t.Fatalf("date after ] = %q, want 2026-03-02", m.date)
	}

	if len(ref.dates) != 2 || ref.dates[0] != "2026-03-01" || ref.dates[1] != "2026-03-02" {
		t.Fatalf("refresher dates = %v", ref.dates)
	}
	if ref.kicks != 2 {
		t.Fatalf("refresher kicks = %d, want 2", ref.kicks)
	}
}

func TestRenderBoardEmptyDay(t *testing.T) {
	m, _, _ := newBoardModel(t, nil)
	m.snapshot = state.Snapshot{}
	out := m.renderBoard()
	if !strings.Contains(out, "Loading queues") {
		t.Fatalf("expected loading message, got %q", out)
	}

	m.snapshot = state.Snapshot{LastUpdated: time.Now()}
	out = m.renderBoard()
	if !strings.Contains(out, "No queues scheduled") {
		t.Fatalf("expected empty day message, got %q", out)
	}
}

func TestRenderBoardMarksServingAndNext(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusConfirmed, 2),
			appt(3, "Cy", queuify.StatusPending, 3),
		}},
	}
	m, _, _ := newBoardModel(t, queues)
	out := m.renderBoard()

	for _, want := range []string{"Ada", "Bo", "Cy", "▶", "›", "#1", "#2"} {
		if !strings.Contains(out, want) {
			t.Errorf("board output missing %q", want)
		}
	}

	// The serving marker line belongs to Ada, the next marker to Bo
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "▶") && !strings.Contains(line, "Ada") {
			t.Errorf("serving marker on wrong line: %q", line)
		}
		if strings.Contains(line, "›") && !strings.Contains(line, "Bo") {
			t.Errorf("next marker on wrong line: %q", line)
		}
	}
}

func TestRenderQueueTabsShowsWaitingCounts(t *testing.T) {
	queues := []queuify.Queue{
		{ID: 1, Name: "Desk A", Appointments: []queuify.Appointment{
			appt(1, "Ada", queuify.StatusServing, 1),
			appt(2, "Bo", queuify.StatusPending, 2),
			appt(3, "Cy", queuify.StatusConfirmed, 3),
		}},
		{ID: 2, Name: "Desk B"},
	}
	m, _, _ := newBoardModel(t, queues)
	out := m.renderQueueTabs(m.theme.Styles())
	if !strings.Contains(out, "Desk A (2)") {
		t.Errorf("tabs missing waiting count: %q", out)
	}
	if !strings.Contains(out, "Desk B (0)") {
		t.Errorf("tabs missing empty queue: %q", out)
	}
}

func TestHeaderShowsOfflineAfterRepeatedFailures(t *testing.T) {
	m, _, _ := newBoardModel(t, nil)
	m.snapshot = state.Snapshot{
		LastError:           fmt.Errorf("fetch live queue: connection refused"),
		ConsecutiveFailures: 3,
	}
	out := m.renderHeader()
	if !strings.Contains(out, "OFFLINE") {
		t.Fatalf("header should show OFFLINE, got %q", out)
	}
}
