package model

import "time"

// Session is one scheduled block inside a multi-day event.  Sessions are
// conceptually ordered by start time and must lie within the parent
// event's interval; neither property is enforced here because the
// external CRUD collaborator owns session writes.
//
// Fields:
//  ID           – primary key identifier.
//  EventID      – parent event.
//  Title        – display title used in join button labels.
//  StartsAt     – when the session begins (UTC).
//  EndsAt       – when the session ends (UTC).
//  DisplayOrder – organiser-chosen ordering hint.
type Session struct {
	ID           uint64    // sessions.id
	EventID      uint64    // sessions.event_id
	Title        string    // sessions.title
	StartsAt     time.Time // sessions.starts_at
	EndsAt       time.Time // sessions.ends_at
	DisplayOrder uint32    // sessions.display_order
}
