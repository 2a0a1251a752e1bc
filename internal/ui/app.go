package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/queuify/qboard/internal/prefs"
	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/socket"
	"github.com/queuify/qboard/internal/state"
)

// Refresher triggers immediate or rescheduled data refreshes. It is
// satisfied by the app-level refresh loop.
type Refresher interface {
	Kick()
	SetDate(date string)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    queuify.API
	Store     *state.Store
	Socket    *socket.Manager
	Refresher Refresher
	Track     bool
	TrackID   int64
	OrgID     string
	Date      string
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    queuify.API
	store     *state.Store
	sock      *socket.Manager
	refresher Refresher
	prefsPath string
	pollTick  time.Duration

	// Mode
	track   bool
	trackID int64
	orgID   string
	date    string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Board state
	queueIdx    int
	selectedRow int
	inFlight    bool

	// Transient status line
	toast   string
	toastAt time.Time

	// Overlays
	modal    Modal
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		sock:      opts.Socket,
		refresher: opts.Refresher,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		track:     opts.Track,
		trackID:   opts.TrackID,
		orgID:     opts.OrgID,
		date:      opts.Date,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampSelection()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		var selectedID int64
		if appt := m.selectedAppointment(); appt != nil {
			selectedID = appt.ID
		}
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.restoreSelection(selectedID)
		return m, nil

	case actionDoneMsg:
		m.inFlight = false
		if msg.err != nil {
			m.setToast("action failed: " + msg.err.Error())
		} else {
			m.setToast(msg.note)
		}
		return m, fetchSnapshotCmd(m.store)

	case resolveErrMsg:
		// Resolution failed before any advance. Keep the dialog open so
		// the operator can retry or abandon.
		m.inFlight = false
		if m.modal != nil {
			updated, cmd, closed := m.modal.Update(msg, m.keys)
			m.modal = updated
			if closed {
				m.modal = nil
			}
			return m, cmd
		}
		m.setToast("resolve failed: " + msg.err.Error())
		return m, nil

	case advanceErrMsg:
		// The outcome stuck but calling next failed. The dialog stays so
		// the operator can retry just the advance.
		m.inFlight = false
		if m.modal != nil {
			updated, cmd, closed := m.modal.Update(msg, m.keys)
			m.modal = updated
			if closed {
				m.modal = nil
			}
			return m, cmd
		}
		m.setToast("calling next failed: " + msg.err.Error())
		return m, fetchSnapshotCmd(m.store)

	case resolveDoneMsg:
		m.inFlight = false
		m.modal = nil
		m.setToast("now serving " + msg.nextName)
		return m, fetchSnapshotCmd(m.store)
	}

	// Route everything else through an open modal
	if m.modal != nil {
		updated, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = updated
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.track {
		b.WriteString(m.renderTrack())
	} else {
		b.WriteString(m.renderBoard())
	}
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// An open dialog captures all keys
	if m.modal != nil {
		updated, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = updated
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.refresher.Kick()
		m.setToast("refreshing")
		return m, nil
	}

	if m.track {
		return m, nil
	}

	return m.handleBoardKey(msg)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

// setToast records a transient status message.
func (m *Model) setToast(text string) {
	m.toast = text
	m.toastAt = time.Now()
}

// currentToast returns the toast if it has not expired.
func (m Model) currentToast() string {
	if m.toast == "" || time.Since(m.toastAt) > 5*time.Second {
		return ""
	}
	return m.toast
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// actionDoneMsg reports the outcome of a single status update.
type actionDoneMsg struct {
	err  error
	note string
}

// resolveErrMsg reports a failed resolution while the dialog is open.
// Nothing has been written when this arrives.
type resolveErrMsg struct {
	err error
}

// advanceErrMsg reports that the outcome was written but calling the
// next visitor failed.
type advanceErrMsg struct {
	outcome queuify.Status
	err     error
}

// resolveDoneMsg reports a completed resolution: the serving appointment
// was resolved and the next visitor called.
type resolveDoneMsg struct {
	outcome  queuify.Status
	nextName string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		popts = append(popts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, popts...)
	_, err := p.Run()
	return err
}
