// File: internal/domain/message.go
package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	MessageContentMaxLen = 5000
)

// Message is one turn in a conversation. Messages are append-only: once
// written they are never mutated, and creation time is the only ordering.
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null"`
	UserID         uint      `json:"user_id" gorm:"index;not null"` // redundant with the conversation's owner, kept for isolation checks
	Role           string    `json:"role" gorm:"not null"`          // "user" or "assistant"
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the two persisted roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
