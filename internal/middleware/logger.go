package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs every request with zap. Authorization and cookie
// headers are redacted.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			hdr, _ := json.Marshal(scrub(req.Header))
			log.Debug("incoming request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("origin", req.Header.Get(echo.HeaderOrigin)),
				zap.ByteString("hdr", hdr),
			)

			ts := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			log.Info("completed",
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(ts)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("user", principal(c)),
			)
			return nil
		}
	}
}

func scrub(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "authorization") || strings.Contains(lk, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}
