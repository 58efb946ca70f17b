package lounge

import "github.com/evlive/lounge/internal/model"

// Intent is the tagged union of every mutation the registry accepts.  All
// writes, whether they originate from a websocket command, a REST call or
// an admin console, are expressed as one of these values and flow through
// Lounge.Apply so arbitration lives in exactly one place.
type Intent interface {
	intent()
}

// JoinTable asks to seat the occupant at a specific seat of a table.  It
// succeeds only if the seat is free and the occupant holds no other seat
// at this event.
type JoinTable struct {
	TableID   string
	SeatIndex int
	Occupant  model.Occupant
}

// LeaveTable removes whatever seat the user currently holds across all
// tables of the event.  It is idempotent: leaving while holding no seat
// is a successful no-op.
type LeaveTable struct {
	UserID string
}

// CreateTable adds a new empty table to the lounge.  Admin only.
type CreateTable struct {
	Name     string
	MaxSeats int
	Icon     string
	Admin    bool
}

// DeleteTable removes a table and evicts its occupants.  Admin only.
type DeleteTable struct {
	TableID string
	Admin   bool
}

// UpdateIcon replaces a table's display icon.  Admin only.
type UpdateIcon struct {
	TableID string
	Icon    string
	Admin   bool
}

func (JoinTable) intent()   {}
func (LeaveTable) intent()  {}
func (CreateTable) intent() {}
func (DeleteTable) intent() {}
func (UpdateIcon) intent()  {}
