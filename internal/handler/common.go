package handler // handler defines the HTTP handlers of the book API

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/fault"
)

// requestTimeout bounds the store calls made while serving one request.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// parseID reads the :id path parameter. Values that are not integers are a
// bad request; the range check is left to the services.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fault.BadRequest("Bad Request")
	}
	return id, nil
}

// bindAndValidate decodes the request body into dst and runs the registered
// validator over it. Decoder failures become a plain "Bad Request"; the
// decoder text stays in the cause.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return fault.Wrap(fault.KindBadRequest, "Bad Request", err)
		}
		return err
	}
	return c.Validate(dst)
}
