package user

import (
    "context"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
    Create(ctx context.Context, user *domain.User) (*domain.User, error)
    FindByID(ctx context.Context, id uint) (*domain.User, error)
    FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
