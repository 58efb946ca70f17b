package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/evlive/lounge/internal/config"
	"github.com/evlive/lounge/internal/handler"    // import the handlers that implement business logic
	"github.com/evlive/lounge/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the websocket
// endpoint.  The websocket carries its token in the query string and
// performs its own validation, so the bearer middleware must not run on
// it.
func RegisterRoutes(e *echo.Echo, ws *handler.WSHandler) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
	e.GET("/ws/lounge/:eventID", ws.Serve)
}

// RegisterLounge registers the lounge REST surface.  Reads and seat
// mutations live under /v1 behind JWT auth, role enforcement and the
// redis token bucket; table administration additionally requires the
// out-of-band admin key.  Every join/create route is also registered
// under the legacy /v1/lounge/:id/... shape that older clients still
// call, pointing at the same handlers.
func RegisterLounge(e *echo.Echo, l *handler.LoungeHandler, js *handler.JoinStateHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(cfg.JWTSecret))
	g.Use(middleware.RequireRole(middleware.RoleHost, middleware.RoleAttendee))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Snapshot read, hit by the polling fallback every cycle.
	g.GET("/events/:id/lounge", l.GetLoungeState)
	// Join affordance for the event page button.
	g.GET("/events/:id/join-state", js.GetJoinState)
	// Seat claim and release.
	g.POST("/events/:id/lounge/tables/:tableID/join", l.JoinTable)
	g.POST("/events/:id/lounge/leave", l.LeaveTable)

	// Table administration, gated by the bcrypt-hashed admin key.
	admin := g.Group("", middleware.RequireAdminKey(cfg.AdminKeyHash))
	admin.POST("/events/:id/lounge/tables", l.CreateTable)
	admin.DELETE("/events/:id/lounge/tables/:tableID", l.DeleteTable)
	admin.PATCH("/events/:id/lounge/tables/:tableID/icon", l.UpdateIcon)

	// Legacy URL shapes.  Clients fall back to these when the primary
	// path answers 404, so both must stay wired to identical behaviour.
	g.POST("/lounge/:id/tables/:tableID/join", l.JoinTable)
	admin.POST("/lounge/:id/tables", l.CreateTable)
}
