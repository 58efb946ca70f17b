package handler

import (
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters

	"github.com/google/uuid"      // random suffix for guest identities
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/evlive/lounge/internal/middleware"
	"github.com/evlive/lounge/internal/realtime"
)

// WSHandler upgrades GET /ws/lounge/:eventID to a lounge websocket.  The
// access token travels in the ?token= query parameter because browsers
// cannot set headers on websocket dials; a missing or empty token yields
// a read-capable guest identity instead of a rejection, matching the
// unauthenticated preview behaviour of the REST reads.  An invalid token
// is still rejected so a stale credential fails loudly rather than
// silently downgrading to guest.
type WSHandler struct {
	Hub       *realtime.Hub // connection registration and fan-out
	JWTSecret string        // secret for validating the query token
}

// NewWSHandler constructs a WSHandler.  Hub must be non-nil.
func NewWSHandler(hub *realtime.Hub, jwtSecret string) *WSHandler {
	if hub == nil {
		panic("nil hub passed to NewWSHandler")
	}
	return &WSHandler{Hub: hub, JWTSecret: jwtSecret}
}

// Serve validates the token, builds the client identity and hands the
// connection to the hub.  After the upgrade the hub owns the socket.
func (h *WSHandler) Serve(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("eventID"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var id realtime.Identity
	if raw := c.QueryParam("token"); raw != "" {
		claims, err := middleware.ParseToken(h.JWTSecret, raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		if v, ok := claims["sub"].(string); ok {
			id.UserID = v
		}
		if v, ok := claims["name"].(string); ok {
			id.DisplayName = v
		}
		if v, ok := claims["avatar"].(string); ok {
			id.AvatarURL = v
		}
	}
	if id.UserID == "" {
		// Random suffix keeps concurrent guests from colliding on one id.
		id.UserID = "guest-" + uuid.NewString()[:8]
	}
	if id.DisplayName == "" {
		id.DisplayName = "Guest"
	}
	return h.Hub.HandleConnection(c.Response(), c.Request(), eventID, id)
}
