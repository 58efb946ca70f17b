package model

import "time"

// Event status values as stored by the external CRUD service.  This core
// only reads events; it never transitions their status.
const (
	EventStatusScheduled = "SCHEDULED"
	EventStatusEnded     = "ENDED"
	EventStatusCancelled = "CANCELLED"
)

// Event represents a virtual event whose live-access windows this service
// evaluates.  Events are created and edited by an external collaborator;
// this core treats them as read-only input to the join decision engine
// and as the scope key for lounge state.
//
// Fields:
//  ID                 – primary key identifier.
//  Title              – display title of the event.
//  StartsAt           – when the event begins (UTC).
//  EndsAt             – when the event ends (UTC, must be after StartsAt).
//  Timezone           – IANA timezone name the organiser scheduled in.
//  IsMultiDay         – whether the event is split into sub-sessions.
//  WaitingRoomEnabled – whether attendees are normally held for host admission.
//  GracePeriodMin     – minutes after start during which direct join is
//                       allowed even when a waiting room is enabled.
//  IsLive             – whether the host has started the live stream.
//  Status             – SCHEDULED, ENDED or CANCELLED.
//  RecordingURL       – optional recording reference shown after the event.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Event struct {
	ID                 uint64    // events.id
	Title              string    // events.title
	StartsAt           time.Time // events.starts_at
	EndsAt             time.Time // events.ends_at
	Timezone           string    // events.timezone
	IsMultiDay         bool      // events.is_multi_day
	WaitingRoomEnabled bool      // events.waiting_room_enabled
	GracePeriodMin     uint32    // events.grace_period_min
	IsLive             bool      // events.is_live
	Status             string    // events.status
	RecordingURL       string    // events.recording_url
	CreatedAt          time.Time // events.created_at
	UpdatedAt          time.Time // events.updated_at
}
