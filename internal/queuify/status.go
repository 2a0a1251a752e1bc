package queuify

import "strings"

// Status is the closed set of appointment states the backend emits. Anything
// outside the set is mapped to StatusUnknown at the decode boundary so views
// never have to render an ambiguous string.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusServing   Status = "serving"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"

	// StatusUnknown marks a value the backend sent that this client does not
	// recognize. Unknown appointments are rendered but never actionable.
	StatusUnknown Status = "unknown"
)

// ParseStatus normalizes a raw status string. The second return reports
// whether the value belonged to the known set.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusServing:
		return StatusServing, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusNoShow:
		return StatusNoShow, true
	}
	return StatusUnknown, false
}

// Terminal reports whether the status ends the appointment's lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Waiting reports whether the appointment is still in line.
func (s Status) Waiting() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Known reports whether the status belongs to the recognized set.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusServing, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// transitions is the allowed-transition table. The server remains the final
// arbiter; the client uses this to refuse issuing requests it already knows
// are invalid.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusServing, StatusCancelled},
	StatusConfirmed: {StatusServing, StatusCancelled},
	StatusServing:   {StatusCompleted, StatusNoShow, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is allowed.
// Terminal states have no outgoing transitions.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Display returns the status as a human-readable label.
func (s Status) Display() string {
	switch s {
	case StatusNoShow:
		return "No Show"
	case StatusUnknown:
		return "Unknown"
	}
	if s == "" {
		return ""
	}
	str := string(s)
	return strings.ToUpper(str[:1]) + str[1:]
}
