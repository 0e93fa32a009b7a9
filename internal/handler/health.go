package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/fault"
)

// Health is a simple health check used by load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// AlwaysFail answers every call with a 500 envelope.
func AlwaysFail(c echo.Context) error {
	return fault.New(fault.KindUnhandled, "An error has been occured.")
}
