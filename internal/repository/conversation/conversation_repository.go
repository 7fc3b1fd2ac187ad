// File: internal/repository/conversation/conversation_repository.go

package conversation

import (
    "context"
    "errors"
    "log"

    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")

type gormConversationRepository struct {
    db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
    return &gormConversationRepository{db: db}
}

// Create persists a new conversation for its owner.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
    if conv == nil || conv.UserID == 0 {
        return nil, errors.New("user ID is required")
    }

    if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
        log.Printf("[ConversationRepository] Database error during conversation creation for user ID %d: %v", conv.UserID, err)
        return nil, errors.New("database error creating conversation")
    }

    log.Printf("[ConversationRepository] Conversation created successfully with ID: %d for user: %d", conv.ID, conv.UserID)
    return conv, nil
}

// FindByID fetches a conversation without owner scoping. Callers decide
// whether a mismatched owner is a not-found or a forbidden condition.
func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
    if id == 0 {
        return nil, errors.New("invalid conversation ID")
    }

    var conv domain.Conversation
    err := r.db.WithContext(ctx).First(&conv, id).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrConversationNotFound
        }
        log.Printf("[ConversationRepository] FindByID database error: %v", err)
        return nil, errors.New("database query failed")
    }
    return &conv, nil
}

// FindByUserID returns the owner's conversations, most recently active first.
func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.Conversation, int64, error) {
    if userID == 0 {
        return nil, 0, errors.New("invalid user ID")
    }
    if limit <= 0 || limit > 1000 {
        limit = 100
    }
    if offset < 0 {
        offset = 0
    }

    var total int64
    if err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
        log.Printf("[ConversationRepository] Database error counting conversations for user ID %d: %v", userID, err)
        return nil, 0, errors.New("database error counting conversations")
    }

    var convs []domain.Conversation
    err := r.db.WithContext(ctx).
        Where("user_id = ?", userID).
        Order("updated_at DESC, id DESC").
        Limit(limit).
        Offset(offset).
        Find(&convs).Error
    if err != nil {
        log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
        return nil, 0, errors.New("database error fetching conversations")
    }

    return convs, total, nil
}

// Delete removes an owner's conversation. The owner-scoped WHERE clause makes
// a cross-owner delete indistinguishable from a missing row.
func (r *gormConversationRepository) Delete(ctx context.Context, convID, userID uint) error {
    if convID == 0 || userID == 0 {
        return errors.New("invalid conversation ID or user ID")
    }

    result := r.db.WithContext(ctx).
        Where("id = ? AND user_id = ?", convID, userID).
        Delete(&domain.Conversation{})
    if result.Error != nil {
        log.Printf("[ConversationRepository] Database error deleting conversation ID %d for user ID %d: %v", convID, userID, result.Error)
        return errors.New("database error deleting conversation")
    }
    if result.RowsAffected == 0 {
        return ErrUnauthorizedAccess
    }

    log.Printf("[ConversationRepository] Conversation deleted successfully: ID %d for user %d", convID, userID)
    return nil
}

// TouchUpdatedAt advances the conversation's activity timestamp. Called on
// every message append so the updated_at invariant holds.
func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, convID uint) error {
    if convID == 0 {
        return errors.New("invalid conversation ID")
    }

    result := r.db.WithContext(ctx).
        Model(&domain.Conversation{}).
        Where("id = ?", convID).
        Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
    if result.Error != nil {
        log.Printf("[ConversationRepository] Database error updating timestamp for conversation ID %d: %v", convID, result.Error)
        return errors.New("database error updating conversation timestamp")
    }
    if result.RowsAffected == 0 {
        return ErrConversationNotFound
    }

    return nil
}
