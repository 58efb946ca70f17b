package model

// Occupant identifies a user sitting at a lounge table seat.  A seat holds
// at most one occupant, and an occupant holds at most one seat across all
// tables of the same event.
//
// Fields:
//  UserID      – server-assigned identity of the user.
//  DisplayName – name rendered on the seat.
//  AvatarURL   – optional avatar reference.
type Occupant struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// LoungeTable is a bounded-capacity social breakout unit inside one
// event's lounge.  Seats are indexed 0..MaxSeats-1; absent map entries
// mean the seat is free.  Tables are created by admin action and mutated
// exclusively through the seat registry.
//
// Fields:
//  ID       – opaque table identifier (UUID).
//  EventID  – event whose lounge this table belongs to.
//  Name     – display name of the table.
//  MaxSeats – number of seats around the table (positive).
//  Icon     – display icon reference.
//  Seats    – seat index to occupant mapping.
type LoungeTable struct {
	ID       string           `json:"id"`
	EventID  uint64           `json:"event_id"`
	Name     string           `json:"name"`
	MaxSeats int              `json:"max_seats"`
	Icon     string           `json:"icon,omitempty"`
	Seats    map[int]Occupant `json:"seats"`
}
