// Package ui provides the terminal user interface for qboard.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea. A single root Model renders one of two
// modes: the board (admin live queue) or the track view (one appointment's
// position as its owner sees it). The Model itself never talks to the
// network for reads; it renders snapshots taken from state.Store, which the
// app-level refresher keeps current. Writes (status transitions) go through
// queuify.API from Bubble Tea commands.
//
// # Package Structure
//
//   - app.go: root Model, messages, commands, and the Run function
//   - board.go: live queue board rendering and navigation
//   - track.go: end-user queue position view
//   - actions.go: Call Next decision handling and status transition commands
//   - modal.go: the resolve dialog shown when someone is still being served
//   - header.go: status bar and command hints bar
//   - theme.go: color themes and Lipgloss styles
//
// # Event Flow
//
//  1. Run() starts the Bubble Tea program.
//  2. A periodic tick reads the latest snapshot from state.Store.
//  3. Key input triggers navigation or a transition command.
//  4. Transition commands write through the REST client, announce the
//     change over the socket, and kick the refresher; the next snapshot
//     carries the authoritative result.
//
// # Call Next
//
// Advancing a queue is a decision over the current snapshot, made by
// state.DecideCallNext. When nobody holds serving the head of line starts
// serving immediately. When someone does, a dialog asks the operator what
// happened to them (completed or no show) before the next visitor is
// called; escaping the dialog abandons the advance with nothing written.
//
// # Key Bindings
//
//   - j/k, g/G: navigate appointments
//   - Tab/Shift+Tab: switch queues
//   - [ / ] / t: change the board date
//   - c or Enter: call next
//   - d / x: mark selected completed / no-show
//   - r: refresh now
//   - T: cycle theme
//   - h or ?: help overlay
//   - e or Ctrl+C: exit
package ui
