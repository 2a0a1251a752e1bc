// Package state provides thread-safe storage and derivation of Queuify
// backend state.
//
// The Store holds one canonical snapshot (queues plus an appointment index,
// or the tracked appointment's queue status) that the refresher writes and
// the UI reads. Derivations — who is serving, who is next, what Call Next
// should do — are pure functions over a snapshot, recomputed on every
// render, never cached.
package state
