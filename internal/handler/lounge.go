package handler

import (
	"errors"   // errors.Is comparisons against lounge sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/evlive/lounge/internal/cache"
	"github.com/evlive/lounge/internal/config"
	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/middleware"
	"github.com/evlive/lounge/internal/model"
	"github.com/evlive/lounge/internal/realtime"
	"github.com/evlive/lounge/internal/utils"
)

// LoungeHandler groups the dependencies needed to read and mutate lounge
// state over REST.  Mutations go through the hub so that accepted changes
// are broadcast to every realtime client and observed by the snapshot
// cache and the activity audit, exactly as if they had arrived over the
// websocket.  Methods assume JWT authentication has already run; admin
// mutations additionally assume the admin key middleware has set the
// "is_admin" flag.
type LoungeHandler struct {
	Hub      *realtime.Hub        // fan-out and single mutation entry point
	Registry *lounge.Registry     // direct snapshot reads
	Cache    *cache.SnapshotCache // redis-backed fallback for cold reads
	Cfg      config.Config        // breakout token secret and TTL
}

// NewLoungeHandler constructs a LoungeHandler.  Hub and Registry must be
// non-nil; Cache may be a disabled cache.
func NewLoungeHandler(hub *realtime.Hub, registry *lounge.Registry, snapCache *cache.SnapshotCache, cfg config.Config) *LoungeHandler {
	if hub == nil || registry == nil {
		panic("nil dependency passed to NewLoungeHandler")
	}
	return &LoungeHandler{Hub: hub, Registry: registry, Cache: snapCache, Cfg: cfg}
}

// GetLoungeState handles GET /v1/events/:id/lounge.  It returns the full
// snapshot of the event's lounge; this is the endpoint the polling
// fallback hits every cycle.  When the in-process registry is empty (a
// fresh instance after restart) the redis cache is consulted so pollers
// keep seeing the last known state.
func (h *LoungeHandler) GetLoungeState(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	// Lookup, not ForEvent: a read must not allocate lounges for whatever
	// event ids callers decide to poll.
	var snap lounge.Snapshot
	if l, ok := h.Registry.Lookup(eventID); ok {
		snap = l.Snapshot()
	}
	if snap.Version == 0 && len(snap.Tables) == 0 {
		if cached, ok := h.Cache.Load(c.Request().Context(), eventID); ok {
			snap = cached
		} else {
			snap = lounge.Snapshot{EventID: eventID, Tables: []lounge.TableState{}}
		}
	}
	return c.JSON(http.StatusOK, snap)
}

// JoinTable handles POST /v1/events/:id/lounge/tables/:tableID/join.  A
// successful claim answers with a breakout session token pinning the
// granted (event, table, seat).  Unlike the realtime path, REST callers
// get conflicts back explicitly: a taken seat or an existing seat of the
// same user is a 409.
func (h *LoungeHandler) JoinTable(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	tableID := c.Param("tableID")
	var body struct {
		SeatIndex int `json:"seat_index"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	occ := model.Occupant{
		UserID:      middleware.CurrentUserID(c),
		DisplayName: middleware.CurrentDisplayName(c),
	}
	if v, ok := c.Get("avatar_url").(string); ok {
		occ.AvatarURL = v
	}
	_, err = h.Hub.Apply(eventID, lounge.JoinTable{TableID: tableID, SeatIndex: body.SeatIndex, Occupant: occ})
	if err != nil {
		return loungeError(c, err)
	}
	tok, err := utils.NewBreakoutToken(h.Cfg.JWTSecret, occ.UserID, eventID, tableID, body.SeatIndex, h.Cfg.BreakoutTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      tok.Token,
		"expires_at": tok.Exp,
		"table_id":   tableID,
		"seat_index": body.SeatIndex,
	})
}

// LeaveTable handles POST /v1/events/:id/lounge/leave.  Releasing a seat
// is idempotent, so a caller who holds no seat still gets a 200.
func (h *LoungeHandler) LeaveTable(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Hub.Apply(eventID, lounge.LeaveTable{UserID: middleware.CurrentUserID(c)}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "leave failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// CreateTable handles POST /v1/events/:id/lounge/tables (admin only).  It
// returns the created table with its server-assigned id.
func (h *LoungeHandler) CreateTable(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		Name     string `json:"name"`
		MaxSeats int    `json:"max_seats"`
		Icon     string `json:"icon"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	snap, err := h.Hub.Apply(eventID, lounge.CreateTable{
		Name:     body.Name,
		MaxSeats: body.MaxSeats,
		Icon:     body.Icon,
		Admin:    isAdmin(c),
	})
	if err != nil {
		return loungeError(c, err)
	}
	// Tables keep creation order, so the new table is the last one.
	return c.JSON(http.StatusCreated, snap.Tables[len(snap.Tables)-1])
}

// DeleteTable handles DELETE /v1/events/:id/lounge/tables/:tableID (admin
// only).  Occupants of a deleted table are released along with it.
func (h *LoungeHandler) DeleteTable(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Hub.Apply(eventID, lounge.DeleteTable{TableID: c.Param("tableID"), Admin: isAdmin(c)}); err != nil {
		return loungeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}

// UpdateIcon handles PATCH /v1/events/:id/lounge/tables/:tableID/icon
// (admin only).
func (h *LoungeHandler) UpdateIcon(c echo.Context) error {
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		Icon string `json:"icon"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := h.Hub.Apply(eventID, lounge.UpdateIcon{TableID: c.Param("tableID"), Icon: body.Icon, Admin: isAdmin(c)}); err != nil {
		return loungeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// loungeError maps registry sentinels onto HTTP statuses for the REST
// surface.  The realtime surface makes different choices (silent drops
// for seat conflicts); these are deliberately not shared.
func loungeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, lounge.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, lounge.ErrSeatOutOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat index out of range"})
	case errors.Is(err, lounge.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
	case errors.Is(err, lounge.ErrAlreadySeated):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already seated at a table"})
	case errors.Is(err, lounge.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, lounge.ErrInvalidTable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func parseEventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

func isAdmin(c echo.Context) bool {
	v, _ := c.Get("is_admin").(bool)
	return v
}
