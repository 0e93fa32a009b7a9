package fault

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler returns the catch-all handler installed as
// echo.Echo.HTTPErrorHandler. It writes an Envelope for every error and
// never panics; a failure while writing is only logged.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return handlerWithClock(log, time.Now)
}

func handlerWithClock(log *zap.Logger, now func() time.Time) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("error handler panicked", zap.Any("panic", r))
			}
		}()
		if c.Response().Committed {
			return
		}

		status, msg := Classify(err)
		req := c.Request()
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Int("status", status),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
		} else {
			log.Debug("request rejected",
				zap.Int("status", status),
				zap.String("kind", KindOf(err).String()),
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
		}

		var werr error
		if req.Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, NewEnvelope(msg, status, now()))
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}
