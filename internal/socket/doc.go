// Package socket manages the shared realtime connection to the Queuify
// backend.
//
// # Overview
//
// One Manager serves the whole process. Views declare interest in an
// organization's (and optionally a service's or resource's) updates via
// Join; the Manager dials lazily on the first Join, keeps room membership
// reference-counted so the last leaver actually leaves, and re-dials with
// capped exponential backoff when the connection drops, replaying joins on
// reconnect.
//
// # Events carry no state
//
// Inbound queue_update events are pure invalidation signals. The payload may
// hint at what changed (queue_advancement, status_change) but is never
// trusted as the new state: every subscriber reacts by re-fetching from the
// REST API, which is the sole source of truth. This is also why delivery is
// lossy by design — a dropped or malformed event costs at most one poll
// interval of staleness.
//
// # Failure model
//
// Connection failures are not surfaced to callers. Every view that uses the
// socket also polls, so a dead socket degrades to poll-interval freshness
// rather than an error state. Announce is fire-and-forget for the same
// reason.
//
// # Wire frames
//
// Client → server:
//
//	{"type":"join_org","payload":{"org_id":"..."}}
//	{"type":"leave_org","payload":{"org_id":"..."}}
//	{"type":"status_change","payload":{"appointment_id":1,"status":"serving","org_id":"...","request_id":"...","client_id":"..."}}
//
// join_service/join_resource (and the leave counterparts) follow the same
// shape. Server → client frames decode into Event.
package socket
