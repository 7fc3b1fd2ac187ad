// File: internal/repository/message/message_repository.go

package message

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"

    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
    db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
    return &gormMessageRepository{db: db}
}

// Create appends a message to its conversation's log.
func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
    if err := r.validateMessageInput(msg); err != nil {
        log.Printf("[MessageRepository] Validation failed: %v", err)
        return nil, fmt.Errorf("validation failed: %w", err)
    }

    if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
        log.Printf("[MessageRepository] Database error during message creation for conversation ID %d: %v", msg.ConversationID, err)
        return nil, errors.New("database error creating message")
    }

    log.Printf("[MessageRepository] Message created successfully with ID: %d for conversation: %d", msg.ID, msg.ConversationID)
    return msg, nil
}

// FindRecentByConversationID returns the last `limit` messages of a
// conversation in chronological order. The query fetches newest-first and the
// slice is reversed, so a long conversation only ever loads its tail.
func (r *gormMessageRepository) FindRecentByConversationID(ctx context.Context, convID uint, limit int) ([]domain.Message, error) {
    if convID == 0 {
        return nil, errors.New("invalid conversation ID")
    }
    if limit <= 0 || limit > 1000 {
        limit = 50
    }

    var messages []domain.Message
    err := r.db.WithContext(ctx).
        Where("conversation_id = ?", convID).
        Order("created_at DESC, id DESC").
        Limit(limit).
        Find(&messages).Error
    if err != nil {
        log.Printf("[MessageRepository] Database error finding messages for conversation ID %d: %v", convID, err)
        return nil, errors.New("database error fetching messages")
    }

    // Reverse to chronological order (oldest first).
    for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
        messages[i], messages[j] = messages[j], messages[i]
    }

    return messages, nil
}

// CountByConversationID counts a conversation's messages without loading them.
func (r *gormMessageRepository) CountByConversationID(ctx context.Context, convID uint) (int64, error) {
    if convID == 0 {
        return 0, errors.New("invalid conversation ID")
    }

    var count int64
    err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("conversation_id = ?", convID).Count(&count).Error
    if err != nil {
        log.Printf("[MessageRepository] Database error counting messages for conversation ID %d: %v", convID, err)
        return 0, errors.New("database error counting messages")
    }

    return count, nil
}

// DeleteByConversationID performs a bulk deletion of all messages associated
// with a given conversation, used when the conversation itself is deleted.
func (r *gormMessageRepository) DeleteByConversationID(ctx context.Context, convID uint) error {
    if convID == 0 {
        return errors.New("invalid conversation ID")
    }

    result := r.db.WithContext(ctx).Where("conversation_id = ?", convID).Delete(&domain.Message{})
    if result.Error != nil {
        log.Printf("[MessageRepository] Database error deleting messages for conversation ID %d: %v", convID, result.Error)
        return errors.New("database error deleting messages by conversation ID")
    }

    log.Printf("[MessageRepository] Deleted %d messages for conversation %d", result.RowsAffected, convID)
    return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(msg *domain.Message) error {
    if msg == nil {
        return errors.New("message cannot be nil")
    }
    if msg.ConversationID == 0 {
        return errors.New("conversation ID is required")
    }
    if msg.UserID == 0 {
        return errors.New("user ID is required")
    }
    if !domain.ValidRole(msg.Role) {
        return errors.New("role must be \"user\" or \"assistant\"")
    }
    if strings.TrimSpace(msg.Content) == "" {
        return errors.New("message content cannot be empty")
    }
    if len(msg.Content) > domain.MessageContentMaxLen {
        return fmt.Errorf("message content too long (max %d characters)", domain.MessageContentMaxLen)
    }
    return nil
}
