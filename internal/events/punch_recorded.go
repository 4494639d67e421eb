package events

import "time"

const PunchTopic = "timeclock.punch.v1"

const (
	EventPunchRecorded = "punch_recorded"
	EventPunchUpdated  = "punch_updated"
	EventPunchDeleted  = "punch_deleted"
)

// PunchEvent is published for every ledger change so downstream systems can
// mirror the ledger. Delivery is best-effort and never blocks the write.
type PunchEvent struct {
	EventType  string    `json:"event_type"`
	PunchID    string    `json:"punch_id"`
	EmployeeID string    `json:"employee_id"`
	PunchType  string    `json:"punch_type,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Flagged    bool      `json:"flagged"`
	Source     string    `json:"source,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
