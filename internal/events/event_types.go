package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged EventType = "session_changed"
)

// Reason says why the session state changed, so listeners need not re-derive it.
type Reason string

const (
	ReasonLogin   Reason = "LOGIN"
	ReasonLogout  Reason = "LOGOUT"
	ReasonExpired Reason = "EXPIRED"
)

// Event is a session change notification. It carries no session data;
// listeners re-query the session store for current state.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Reason    Reason    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSessionChanged builds a session_changed event stamped with now.
func NewSessionChanged(reason Reason, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventSessionChanged,
		Reason:    reason,
		Timestamp: now,
	}
}
