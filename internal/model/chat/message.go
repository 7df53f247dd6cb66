package chat

import (
	"fmt"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one persisted turn of a session log.
type Message struct {
	ID            int64             `json:"id"`
	Content       string            `json:"content"`
	Role          Role              `json:"role"`
	SessionID     string            `json:"sessionId"`
	GeneratedCode *GeneratedWebsite `json:"generatedCode"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// NewMessage is the insert shape; the store assigns ID and CreatedAt.
type NewMessage struct {
	Content       string
	Role          Role
	SessionID     string
	GeneratedCode *GeneratedWebsite
}

// Validate rejects records no backend should accept.
func (m NewMessage) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("unknown role %q", m.Role)
	}
	if m.SessionID == "" {
		return fmt.Errorf("session id is empty")
	}
	return nil
}

// Before orders messages by creation time, then by id.
func (m Message) Before(other Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
