// Package lounge implements the server-authoritative seat registry for an
// event's social lounge: bounded tables of indexed seats, a single intent
// entry point with conflict arbitration, and the seat layout geometry
// shared with clients.  Sentinel errors let the transport layers decide
// which failures are surfaced and which are silently absorbed; a losing
// seat claim is never reported to the loser over the realtime channel,
// only corrected by the next snapshot.
package lounge

import "errors"

// ErrTableNotFound is returned when an intent references a table id that
// does not exist in this event's lounge.
var ErrTableNotFound = errors.New("table not found")

// ErrSeatOutOfRange is returned when the requested seat index is negative
// or not below the table's max_seats.
var ErrSeatOutOfRange = errors.New("seat index out of range")

// ErrSeatTaken is returned when the requested seat is already occupied.
// Over the realtime channel this is arbitration, not an error: the losing
// intent is dropped and the client's optimistic view is corrected by the
// next broadcast snapshot.
var ErrSeatTaken = errors.New("seat already taken")

// ErrAlreadySeated is returned when the requesting user already holds a
// seat at any table of this event.  One seat per user event-wide.
var ErrAlreadySeated = errors.New("user already holds a seat at this event")

// ErrForbidden is returned when a non-admin issues an admin-only intent
// (create, delete or icon update).  Handlers translate it to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTable is returned when table creation parameters are invalid,
// such as a non-positive seat count or an empty name.
var ErrInvalidTable = errors.New("invalid table parameters")
