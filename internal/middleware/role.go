package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/evlive/lounge/internal/utils" // bcrypt-backed admin key verification
)

// Roles carried in the "role" claim of access tokens.
const (
	RoleHost     = "HOST"
	RoleAttendee = "ATTENDEE"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The roles accepted
// should correspond to the values stored in the JWT's "role" claim.  If
// the user's role is not in the allowed set, the request is aborted with
// a 403 Forbidden response.  It assumes a previous middleware has
// extracted the role into the context under the key "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAdminKey gates table mutations behind the out-of-band admin key.
// The plaintext key arrives in the X-Admin-Key header and is verified
// against the bcrypt hash from configuration, so the key itself is never
// stored server-side.  An empty hash disables all admin mutations.
func RequireAdminKey(hash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-Admin-Key")
			if hash == "" || key == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin key required"})
			}
			if !utils.VerifyAdminKey(hash, key) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid admin key"})
			}
			c.Set("is_admin", true)
			return next(c)
		}
	}
}
