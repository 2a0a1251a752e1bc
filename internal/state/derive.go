package state

import "github.com/queuify/qboard/internal/queuify"

// Serving returns the queue's currently-serving appointment. The backend
// guarantees at most one; if a bad snapshot ever contains more, the first in
// list order wins so the board still renders a single serving entry.
func Serving(q queuify.Queue) (queuify.Appointment, bool) {
	for _, appt := range q.Appointments {
		if appt.Status == queuify.StatusServing {
			return appt, true
		}
	}
	return queuify.Appointment{}, false
}

// Next returns the head of the waiting line: the first appointment in the
// server-provided order whose status is pending or confirmed. No client-side
// sorting happens here or anywhere else.
func Next(q queuify.Queue) (queuify.Appointment, bool) {
	for _, appt := range q.Appointments {
		if appt.Status.Waiting() {
			return appt, true
		}
	}
	return queuify.Appointment{}, false
}

// WaitingCount counts appointments still in line.
func WaitingCount(q queuify.Queue) int {
	n := 0
	for _, appt := range q.Appointments {
		if appt.Status.Waiting() {
			n++
		}
	}
	return n
}

// CallNextAction is the outcome of a Call Next decision.
type CallNextAction int

const (
	// ActionNoneWaiting means nobody is in line; nothing may be mutated.
	ActionNoneWaiting CallNextAction = iota
	// ActionStartServing means the head of line can transition to serving
	// directly because no appointment currently holds serving.
	ActionStartServing
	// ActionResolveServing means an appointment is still serving; the
	// operator must resolve its outcome before the queue can advance.
	ActionResolveServing
)

// CallNextDecision captures what Call Next should do for a queue snapshot.
// Current is set only for ActionResolveServing; Next is set for
// ActionStartServing and ActionResolveServing.
type CallNextDecision struct {
	Action  CallNextAction
	Current queuify.Appointment
	Next    queuify.Appointment
}

// DecideCallNext evaluates the Call Next rules against one queue snapshot.
// It never mutates anything: the caller issues the transition (or opens the
// resolve modal) based on the decision.
func DecideCallNext(q queuify.Queue) CallNextDecision {
	next, ok := Next(q)
	if !ok {
		return CallNextDecision{Action: ActionNoneWaiting}
	}
	current, serving := Serving(q)
	if !serving {
		return CallNextDecision{Action: ActionStartServing, Next: next}
	}
	return CallNextDecision{Action: ActionResolveServing, Current: current, Next: next}
}

// PendingTransition is the captured state of a two-step queue advance: the
// still-serving appointment whose outcome the operator must pick, and the
// head-of-line appointment that becomes serving afterwards.
type PendingTransition struct {
	QueueID   int64
	QueueName string
	Current   queuify.Appointment
	Next      queuify.Appointment
}

// BeingServed reports whether the tracked appointment is the one at the
// counter. The token comparison covers backends that bump
// current_serving_number before flipping the appointment's own status.
func BeingServed(qs queuify.QueueStatus) bool {
	if qs.Status == queuify.StatusServing {
		return true
	}
	if qs.Status == queuify.StatusCompleted || qs.Status == queuify.StatusCancelled {
		return false
	}
	return qs.MyRank > 0 && qs.CurrentServingNumber == qs.MyRank
}
