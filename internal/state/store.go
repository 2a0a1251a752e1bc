package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/queuify/qboard/internal/queuify"
)

// Snapshot represents the latest data available to the UI. Board mode fills
// Queues and the appointment index; track mode fills Track.
type Snapshot struct {
	Queues              []queuify.Queue
	Track               queuify.QueueStatus
	HasTrack            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. It is the one
// canonical in-memory copy of backend state; views derive everything from
// snapshots and never mutate them.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	byID     map[int64]queuify.Appointment
}

// UpdateQueues replaces the stored board snapshot. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) UpdateQueues(queues []queuify.Queue, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.recordFailureLocked(err)
		return
	}

	s.snapshot.Queues = cloneQueues(queues)
	s.byID = indexAppointments(s.snapshot.Queues)
	s.recordSuccessLocked()
}

// UpdateTrack replaces the stored end-user queue status. Error handling
// matches UpdateQueues: last-known-good data survives a failed refresh.
func (s *Store) UpdateTrack(status *queuify.QueueStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.recordFailureLocked(err)
		return
	}

	if status != nil {
		s.snapshot.Track = *status
		s.snapshot.HasTrack = true
	} else {
		s.snapshot.HasTrack = false
	}
	s.recordSuccessLocked()
}

func (s *Store) recordFailureLocked(err error) {
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

func (s *Store) recordSuccessLocked() {
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Queues = cloneQueues(s.snapshot.Queues)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Appointment looks up one appointment by id in the canonical index.
func (s *Store) Appointment(id int64) (queuify.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	return appt, ok
}

func cloneQueues(queues []queuify.Queue) []queuify.Queue {
	if len(queues) == 0 {
		return nil
	}
	dup := make([]queuify.Queue, len(queues))
	copy(dup, queues)
	for i := range dup {
		if len(dup[i].Appointments) == 0 {
			dup[i].Appointments = nil
			continue
		}
		appts := make([]queuify.Appointment, len(dup[i].Appointments))
		copy(appts, dup[i].Appointments)
		dup[i].Appointments = appts
	}
	return dup
}

func indexAppointments(queues []queuify.Queue) map[int64]queuify.Appointment {
	byID := make(map[int64]queuify.Appointment)
	for _, q := range queues {
		for _, appt := range q.Appointments {
			byID[appt.ID] = appt
		}
	}
	return byID
}
