package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evlive/lounge/internal/model"
)

// EventRepo reads event rows.  This service never writes them; creation
// and editing belong to the external CRUD collaborator.  All timestamps
// are stored and compared in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the provided database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// queries across repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// GetByID loads one event.  Missing or NULL start/end timestamps are
// returned as zero times; the decision engine classifies those as
// not-joinable rather than this layer rejecting the row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, title, starts_at, ends_at, timezone, is_multi_day,
	                  waiting_room_enabled, grace_period_min, is_live, status,
	                  COALESCE(recording_url, ''), created_at, updated_at
	           FROM events WHERE id = ?`
	var (
		ev     model.Event
		starts sql.NullTime
		ends   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.Title, &starts, &ends, &ev.Timezone, &ev.IsMultiDay,
		&ev.WaitingRoomEnabled, &ev.GracePeriodMin, &ev.IsLive, &ev.Status,
		&ev.RecordingURL, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if starts.Valid {
		ev.StartsAt = starts.Time
	}
	if ends.Valid {
		ev.EndsAt = ends.Time
	}
	return &ev, nil
}
