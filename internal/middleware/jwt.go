package middleware // middleware contains reusable HTTP middleware functions

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUserName = "user_name"
	ctxRoles    = "roles"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// including its lifetime, issuer and audience, and injects the token's
// name and role claims into the request context. Failures are returned as
// Unauthorized faults so the error handler renders the usual envelope.
func JWTAuth(s utils.JWTSettings) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return fault.Unauthorized("Missing bearer token.")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(s, raw, true)
			if err != nil {
				return fault.Wrap(fault.KindUnauthorized, "Invalid or expired access token.", err)
			}

			c.Set(ctxUserName, claims.Name)
			c.Set(ctxRoles, claims.Roles)
			return next(c)
		}
	}
}
