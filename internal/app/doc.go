// Package app provides the orchestration layer for the qboard application.
//
// # Overview
//
// This package wires together configuration, the API client, the realtime
// socket, state management, and the UI. It is the composition root where
// all dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load qboard configuration from ~/.config/qboard/config.toml
//  2. Initialize the HTTP client for the Queuify API
//  3. Create the shared state.Store for UI and refresher coordination
//  4. Create the socket.Manager and join the organization room
//  5. Launch the background refresher goroutine
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Refresh pipeline
//
// There is exactly one refresh function per process, owned by the
// Refresher. Three independent triggers feed it:
//
//   - the poll timer (with exponential backoff while the API is down)
//   - inbound socket events (queue_update signals for joined rooms)
//   - manual kicks (refresh key, date change, after a status update)
//
// Whatever the trigger, the effect is identical: fetch canonical state from
// the REST API and replace the store snapshot. Socket payloads are never
// written to the store. The UI reads snapshots at its own tick and stays
// responsive regardless of fetch latency.
//
// # Modes
//
// Board mode maintains the admin live-queue snapshot for a selected date.
// Track mode maintains one appointment's queue status for the end-user
// view; its org-room join is deferred until the first successful fetch
// reveals the organization id.
//
// # Error handling
//
// Fatal errors (returned from Run): unreadable config, client
// construction. Everything after startup is recoverable: failed refreshes
// are logged, counted into the store for the offline banner, and retried
// with backoff; socket failures degrade silently to poll-interval
// freshness.
package app
