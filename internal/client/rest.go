package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/lounge"
)

// REST consumes the lounge service's HTTP endpoints: the snapshot fetch
// used by the polling fallback, and the mutation endpoints used when the
// realtime channel is unavailable or a confirmation token is needed.
// Join and create fall back to a legacy URL shape when the primary path
// answers 404 and retry once before surfacing failure.
type REST struct {
	base  string
	token string
	http  *http.Client
	log   *logrus.Entry
}

// NewREST builds a REST client for the given service origin, e.g.
// "https://lounge.example.com".  The bearer token authenticates every
// request.
func NewREST(base, token string, log *logrus.Entry) *REST {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &REST{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
		log:   log,
	}
}

// BreakoutJoin is the confirmation returned by a successful REST join:
// a breakout session token plus the seat the server actually granted.
type BreakoutJoin struct {
	Token     string `json:"token"`
	TableID   string `json:"table_id"`
	SeatIndex int    `json:"seat_index"`
}

// FetchLoungeState retrieves the full snapshot for the event.  The poller
// calls this on a fixed cadence regardless of channel state.
func (r *REST) FetchLoungeState(ctx context.Context, eventID uint64) (lounge.Snapshot, error) {
	var snap lounge.Snapshot
	err := r.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/v1/events/%d/lounge", r.base, eventID), nil, &snap)
	return snap, err
}

// JoinTable claims a seat through the REST collaborator and returns the
// breakout session token.  On a 404 from the primary URL it falls back to
// the legacy shape and retries that once before giving up.
func (r *REST) JoinTable(ctx context.Context, eventID uint64, tableID string, seatIndex int) (BreakoutJoin, error) {
	body := map[string]any{"seat_index": seatIndex}
	primary := fmt.Sprintf("%s/v1/events/%d/lounge/tables/%s/join", r.base, eventID, tableID)
	legacy := fmt.Sprintf("%s/v1/lounge/%d/tables/%s/join", r.base, eventID, tableID)
	var out BreakoutJoin
	err := r.withLegacyFallback(ctx, http.MethodPost, primary, legacy, body, &out)
	return out, err
}

// LeaveTable releases whatever seat the caller holds.  Idempotent.
func (r *REST) LeaveTable(ctx context.Context, eventID uint64) error {
	return r.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/v1/events/%d/lounge/leave", r.base, eventID), map[string]any{}, nil)
}

// CreateTable adds a table through the REST collaborator (admin only).
// Same legacy fallback and single retry as JoinTable.
func (r *REST) CreateTable(ctx context.Context, eventID uint64, name string, maxSeats int) (lounge.TableState, error) {
	body := map[string]any{"name": name, "max_seats": maxSeats}
	primary := fmt.Sprintf("%s/v1/events/%d/lounge/tables", r.base, eventID)
	legacy := fmt.Sprintf("%s/v1/lounge/%d/tables", r.base, eventID)
	var out lounge.TableState
	err := r.withLegacyFallback(ctx, http.MethodPost, primary, legacy, body, &out)
	return out, err
}

// withLegacyFallback runs the primary request; a 404 switches to the
// legacy URL, which is retried once on failure before the error is
// surfaced to the caller.
func (r *REST) withLegacyFallback(ctx context.Context, method, primary, legacy string, body, out any) error {
	err := r.doJSON(ctx, method, primary, body, out)
	if err == nil {
		return nil
	}
	var se *statusError
	if !errors.As(err, &se) || se.code != http.StatusNotFound {
		return err
	}
	r.log.WithField("url", primary).Debug("primary url not found, trying legacy shape")
	if err := r.doJSON(ctx, method, legacy, body, out); err == nil {
		return nil
	}
	return r.doJSON(ctx, method, legacy, body, out)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (r *REST) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
