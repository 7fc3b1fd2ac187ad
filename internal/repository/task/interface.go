package task

import (
    "context"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// TaskRepository handles task data operations. Every lookup and mutation is
// scoped by the owning user ID; a task under another owner behaves as absent.
type TaskRepository interface {
    Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
    FindByIDAndUserID(ctx context.Context, taskID, userID uint) (*domain.Task, error)
    FindByUserID(ctx context.Context, userID uint, completed *bool) ([]domain.Task, error)
    Update(ctx context.Context, task *domain.Task) error
    Delete(ctx context.Context, taskID, userID uint) error
    CountByUserID(ctx context.Context, userID uint) (int64, error)
}
