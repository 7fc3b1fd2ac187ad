// File: internal/dtos/chat.go
package dtos

import (
    "time"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// ChatRequestDTO is one conversational turn from the client. A zero or
// omitted conversation_id starts a new conversation.
type ChatRequestDTO struct {
    ConversationID uint   `json:"conversation_id,omitempty"`
    Message        string `json:"message"`
}

// ConversationResponseDTO is the API shape of a conversation.
type ConversationResponseDTO struct {
    ID        uint   `json:"id"`
    CreatedAt string `json:"created_at"`
    UpdatedAt string `json:"updated_at"`
}

// ConversationListResponseDTO wraps a paginated conversation listing.
type ConversationListResponseDTO struct {
    Conversations []ConversationResponseDTO `json:"conversations"`
    Total         int64                     `json:"total"`
}

// MessageResponseDTO is the API shape of a transcript message.
type MessageResponseDTO struct {
    ID        uint   `json:"id"`
    Role      string `json:"role"`
    Content   string `json:"content"`
    CreatedAt string `json:"created_at"`
}

func ConversationFromDomain(conv domain.Conversation) ConversationResponseDTO {
    return ConversationResponseDTO{
        ID:        conv.ID,
        CreatedAt: conv.CreatedAt.Format(time.RFC3339),
        UpdatedAt: conv.UpdatedAt.Format(time.RFC3339),
    }
}

func ConversationsFromDomain(convs []domain.Conversation, total int64) ConversationListResponseDTO {
    out := make([]ConversationResponseDTO, len(convs))
    for i, c := range convs {
        out[i] = ConversationFromDomain(c)
    }
    return ConversationListResponseDTO{Conversations: out, Total: total}
}

func MessagesFromDomain(msgs []domain.Message) []MessageResponseDTO {
    out := make([]MessageResponseDTO, len(msgs))
    for i, m := range msgs {
        out[i] = MessageResponseDTO{
            ID:        m.ID,
            Role:      m.Role,
            Content:   m.Content,
            CreatedAt: m.CreatedAt.Format(time.RFC3339),
        }
    }
    return out
}
