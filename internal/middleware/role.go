package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/fault"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user holds at least one of the specified roles. It assumes
// JWTAuth has already stored the role claims in the context. Requests
// without an allowed role are rejected with a Forbidden fault (403).
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, r := range Roles(c) {
				if allowed[r] {
					return next(c)
				}
			}
			return fault.Forbidden("You do not have permission to access this resource.")
		}
	}
}
