package api

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies this client process to the remote service.
// It is created once at startup and sent with every request so the service
// can correlate turns. The client never modifies it.
type Session struct {
	ID        string
	StartedAt time.Time
}

// NewSession creates a session with a random unique id
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// NewSessionWithID creates a session with a caller supplied id
func NewSessionWithID(id string) Session {
	return Session{
		ID:        id,
		StartedAt: time.Now(),
	}
}
