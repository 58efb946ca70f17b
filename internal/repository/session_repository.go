package repository

import (
	"context"
	"database/sql"

	"github.com/evlive/lounge/internal/model"
)

// SessionRepo reads the sub-sessions of multi-day events.  Read-only for
// the same reason as EventRepo.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the provided database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// ListByEvent returns all sessions of an event ordered by start time.
// The resolver sorts again defensively, but returning them ordered keeps
// the common path allocation-free of surprises.  An event without
// sessions yields an empty slice and nil error.
func (r *SessionRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Session, error) {
	const q = `SELECT id, event_id, title, starts_at, ends_at, display_order
	           FROM sessions WHERE event_id = ?
	           ORDER BY starts_at ASC, display_order ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.EventID, &s.Title, &s.StartsAt, &s.EndsAt, &s.DisplayOrder); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
