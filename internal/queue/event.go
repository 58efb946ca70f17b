// Package queue defines message payloads exchanged over the message broker.
package queue

// Seat activity actions published to the broker.
const (
	ActionTableCreated = "table_created"
	ActionTableDeleted = "table_deleted"
	ActionIconUpdated  = "icon_updated"
	ActionSeatClaimed  = "seat_claimed"
	ActionSeatReleased = "seat_released"
)

// SeatActivityEvent is published for every accepted lounge mutation.  It
// carries enough context for downstream consumers to build an audit
// trail or occupancy analytics without querying the lounge service.
type SeatActivityEvent struct {
	EventID     uint64 `json:"event_id"`
	Action      string `json:"action"`
	TableID     string `json:"table_id,omitempty"`
	TableName   string `json:"table_name,omitempty"`
	SeatIndex   int    `json:"seat_index"`
	UserID      string `json:"user_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Version     uint64 `json:"version"`
	OccurredAt  string `json:"occurred_at"`
}
