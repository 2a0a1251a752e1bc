package queuify

import "time"

const queuifyTimestampLayout = "2006-01-02 15:04:05"

// LiveQueueResponse mirrors /admin/live-queue.
type LiveQueueResponse struct {
	Queues []Queue `json:"queues"`
}

// Queue is one resource/slot grouping of appointments for a single day.
// The appointment order is the server's arrival order and is never re-sorted
// client-side; every derived partition depends on it.
type Queue struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	ResourceName string        `json:"resource_name"`
	SlotStart    string        `json:"slot_start"`
	SlotEnd      string        `json:"slot_end"`
	Appointments []Appointment `json:"appointments"`
}

// Appointment describes a queue entry in transport-friendly form.
type Appointment struct {
	ID          int64  `json:"id"`
	UserName    string `json:"user_name"`
	Status      Status `json:"status"`
	QueueNumber int    `json:"queue_number"`
	TokenNumber int    `json:"token_number"`
	OrgID       string `json:"org_id"`
	ServiceID   string `json:"service_id"`
	ResourceID  string `json:"resource_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Token returns the display token for the appointment. Some deployments
// assign token_number separately from queue_number; queue_number is the
// fallback.
func (a Appointment) Token() int {
	if a.TokenNumber > 0 {
		return a.TokenNumber
	}
	return a.QueueNumber
}

// ParsedStartTime returns the slot start as time.Time when possible.
func (a Appointment) ParsedStartTime() time.Time {
	return parseTime(a.StartTime)
}

// ParsedEndTime returns the slot end as time.Time when possible.
func (a Appointment) ParsedEndTime() time.Time {
	return parseTime(a.EndTime)
}

// ParsedSlotStart returns the queue's slot start as time.Time when possible.
func (q Queue) ParsedSlotStart() time.Time {
	return parseTime(q.SlotStart)
}

// ParsedSlotEnd returns the queue's slot end as time.Time when possible.
func (q Queue) ParsedSlotEnd() time.Time {
	return parseTime(q.SlotEnd)
}

// QueueStatus mirrors /appointments/{id}/queue: the end-user view of one
// appointment's position in its queue.
type QueueStatus struct {
	OrgID                string `json:"org_id"`
	Status               Status `json:"status"`
	MyRank               int    `json:"myRank"`
	PeopleAhead          int    `json:"people_ahead"`
	EstimatedWaitMinutes int    `json:"estimated_wait_time"`
	CurrentServingNumber int    `json:"current_serving_number"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(queuifyTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
