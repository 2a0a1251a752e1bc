// Package queuify provides the HTTP client and domain types for the Queuify
// backend API.
//
// # Overview
//
// The backend is the single source of truth for every appointment. This
// package only reads state and requests transitions; it never originates an
// appointment and never applies an update optimistically. Views re-derive
// everything from the most recent fetch.
//
// # Endpoints
//
//   - GET  /admin/live-queue?date=YYYY-MM-DD  → queues with appointments
//   - PATCH /admin/appointments/{id}          → one status transition
//   - GET  /appointments/{id}/queue           → end-user position and ETA
//
// # Status normalization
//
// Appointment statuses form a closed set (see Status). Values outside the
// set are mapped to StatusUnknown at the decode boundary and logged, so the
// rest of the program never branches on raw backend strings. The
// CanTransition table mirrors the lifecycle the backend enforces:
//
//	pending/confirmed → serving → completed | no_show
//	cancelled is reachable from any non-terminal state
//
// A transition the table forbids is refused locally; a transition the
// backend rejects anyway (two admins racing) surfaces as a regular API
// error and the caller re-fetches.
//
// # Errors
//
// Error responses carrying a JSON {"error": ...} or {"message": ...} body
// surface the backend's own message; anything else degrades to a generic
// status-code error. All errors are recoverable by retry.
package queuify
