package conversation

import (
    "context"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
    Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
    FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
    FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.Conversation, int64, error)
    Delete(ctx context.Context, convID, userID uint) error
    TouchUpdatedAt(ctx context.Context, convID uint) error
}
