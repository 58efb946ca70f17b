package handler

import (
	"net/http" // HTTP status codes
	"time"     // current instant for the decision engine

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/evlive/lounge/internal/middleware"
	"github.com/evlive/lounge/internal/repository"
	"github.com/evlive/lounge/internal/schedule"
)

// JoinStateHandler resolves the single join affordance for an event: the
// button label, whether it is enabled, and which session it targets.  The
// decision is computed fresh on every request; it is never cached because
// the answer changes minute by minute around the grace window.
type JoinStateHandler struct {
	Events   *repository.EventRepo   // read-only event rows
	Sessions *repository.SessionRepo // read-only session rows
}

// NewJoinStateHandler constructs a JoinStateHandler.  Both repositories
// must be non-nil.
func NewJoinStateHandler(events *repository.EventRepo, sessions *repository.SessionRepo) *JoinStateHandler {
	if events == nil || sessions == nil {
		panic("nil repository passed to NewJoinStateHandler")
	}
	return &JoinStateHandler{Events: events, Sessions: sessions}
}

// GetJoinState handles GET /v1/events/:id/join-state.  Hosts get their
// bypass applied from the token's role claim; everyone else is decided
// purely by the event's timing window.
func (h *JoinStateHandler) GetJoinState(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	sessions, err := h.Sessions.ListByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	d := schedule.Decide(schedule.JoinInput{
		Event:    *ev,
		Sessions: sessions,
		IsHost:   middleware.IsHost(c),
		Now:      time.Now().UTC(),
	})
	return c.JSON(http.StatusOK, d)
}
