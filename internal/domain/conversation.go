// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a chat session between a user and the assistant.
// UpdatedAt advances whenever a message is appended.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
