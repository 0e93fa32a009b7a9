package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthEventsQueue is the durable queue carrying AuthEvent messages.
const AuthEventsQueue = "auth.events"

// EventType names what happened to a principal.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"
	EventTokenRefreshed EventType = "token.refreshed"
)

// AuthEvent is published after a registration, a successful login or a
// refresh token rotation. It carries enough information for downstream
// consumers to audit the change without querying the primary database.
type AuthEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	UserName   string    `json:"user_name"`
	Roles      []string  `json:"roles,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// NewAuthEvent stamps a new event with a random id and RFC3339 time.
func NewAuthEvent(t EventType, userName string, roles []string, now time.Time) AuthEvent {
	return AuthEvent{
		ID:         uuid.New(),
		Type:       t,
		UserName:   userName,
		Roles:      roles,
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as a single line for the audit log.
func (e AuthEvent) LogLine() string {
	roles := "[]"
	if len(e.Roles) > 0 {
		roles = fmt.Sprintf("[%s]", strings.Join(e.Roles, ","))
	}
	return fmt.Sprintf("[%s] %s | id=%s | user=%q | roles=%s\n", e.OccurredAt, e.Type, e.ID, e.UserName, roles)
}
