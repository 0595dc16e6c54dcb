package events

import "time"

// Actions carried by an EntryChanged event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntryChanged is published after a ledger row is written or removed.
// Subscribers re-fetch the affected collection; the event carries no row
// data beyond the id.
type EntryChanged struct {
	EventID    string    `json:"event_id"`
	Tenant     string    `json:"tenant"`
	Collection string    `json:"collection"`
	EntryID    int64     `json:"entry_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}
