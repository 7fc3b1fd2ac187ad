package message

import (
    "context"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// MessageRepository handles the append-only message log. There is no update
// operation on purpose: messages are never mutated after creation.
type MessageRepository interface {
    Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
    FindRecentByConversationID(ctx context.Context, convID uint, limit int) ([]domain.Message, error)
    CountByConversationID(ctx context.Context, convID uint) (int64, error)
    DeleteByConversationID(ctx context.Context, convID uint) error
}
