package fault

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ErrorDateLayout is the layout of Envelope.ErrorDate (yyyy-MM-dd HH:mm:ss).
const ErrorDateLayout = "2006-01-02 15:04:05"

// genericMessage replaces the text of errors that carry no fault kind so
// internal details never reach the client.
const genericMessage = "An unexpected error occurred."

var statusByKind = map[Kind]int{
	KindNotFound:        http.StatusNotFound,
	KindBadRequest:      http.StatusBadRequest,
	KindInvalidArgument: http.StatusBadRequest,
	KindOutOfRange:      http.StatusBadRequest,
	KindValidation:      http.StatusUnprocessableEntity,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindInvalidToken:    http.StatusBadRequest,
	KindUnhandled:       http.StatusInternalServerError,
}

// Envelope is the body of every error response.
type Envelope struct {
	Message    string `json:"Message"`
	ErrorDate  string `json:"ErrorDate"`
	StatusCode int    `json:"StatusCode"`
}

// NewEnvelope builds an Envelope stamped with now.
func NewEnvelope(msg string, status int, now time.Time) Envelope {
	return Envelope{Message: msg, ErrorDate: now.Format(ErrorDateLayout), StatusCode: status}
}

// StatusFor maps err to an HTTP status code. Unknown errors map to 500.
func StatusFor(err error) int {
	status, _ := Classify(err)
	return status
}

// Classify returns the status code and the client-facing message for err.
func Classify(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, genericMessage
	}
	var fe *Error
	if errors.As(err, &fe) {
		status, ok := statusByKind[fe.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		msg := fe.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return status, msg
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status := he.Code
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		msg := http.StatusText(status)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return status, msg
	}
	return http.StatusInternalServerError, genericMessage
}
