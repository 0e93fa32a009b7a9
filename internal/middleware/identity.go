package middleware

// identity.go defines helpers that read the principal stored by JWTAuth.
// Handlers use them to learn who is calling; the rate limiter uses
// principal to build per-user keys.

import "github.com/labstack/echo/v4"

// UserName returns the authenticated user name, or "" for anonymous calls.
func UserName(c echo.Context) string {
	if v, ok := c.Get(ctxUserName).(string); ok {
		return v
	}
	return ""
}

// Roles returns the role claims of the authenticated user.
func Roles(c echo.Context) []string {
	if v, ok := c.Get(ctxRoles).([]string); ok {
		return v
	}
	return nil
}

// principal returns the user name, or "anon" when no user is authenticated.
func principal(c echo.Context) string {
	if u := UserName(c); u != "" {
		return u
	}
	return "anon"
}
