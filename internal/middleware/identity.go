package middleware

// identity.go defines helper functions shared across middleware and
// handlers.  They pull the identity claims that JWTAuth stored in the
// Echo context, defaulting to guest values when absent so that read-only
// endpoints keep working for unauthenticated previews.

import "github.com/labstack/echo/v4"

// CurrentUserID extracts the authenticated user id from context.  It
// returns "guest" when no user is authenticated.
func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "guest"
}

// CurrentDisplayName extracts the display name claim, falling back to the
// user id when the token carries no name.
func CurrentDisplayName(c echo.Context) string {
	if v, ok := c.Get("display_name").(string); ok && v != "" {
		return v
	}
	return CurrentUserID(c)
}

// IsHost reports whether the authenticated user carries the host role.
func IsHost(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == RoleHost
}
