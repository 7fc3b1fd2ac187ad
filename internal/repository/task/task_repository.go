// File: internal/repository/task/task_repository.go

package task

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"

    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

var ErrTaskNotFound = errors.New("task not found")

type gormTaskRepository struct {
    db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
    return &gormTaskRepository{db: db}
}

// Create persists a new task after validating its input.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
    if err := r.validateTaskInput(task); err != nil {
        log.Printf("[TaskRepository] Validation failed: %v", err)
        return nil, fmt.Errorf("validation failed: %w", err)
    }

    if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
        log.Printf("[TaskRepository] Database error during task creation for user ID %d: %v", task.UserID, err)
        return nil, errors.New("database error creating task")
    }

    log.Printf("[TaskRepository] Task created successfully with ID: %d for user: %d", task.ID, task.UserID)
    return task, nil
}

// FindByIDAndUserID looks up a task scoped to its owner. A task that exists
// under a different owner is reported as not found, never as forbidden.
func (r *gormTaskRepository) FindByIDAndUserID(ctx context.Context, taskID, userID uint) (*domain.Task, error) {
    if taskID == 0 || userID == 0 {
        return nil, errors.New("invalid task ID or user ID")
    }

    var task domain.Task
    err := r.db.WithContext(ctx).
        Where("id = ? AND user_id = ?", taskID, userID).
        First(&task).Error
    return r.handleFindError(err, &task, "FindByIDAndUserID")
}

// FindByUserID returns the owner's tasks in creation order. A nil completed
// filter returns everything; otherwise only matching tasks are returned.
func (r *gormTaskRepository) FindByUserID(ctx context.Context, userID uint, completed *bool) ([]domain.Task, error) {
    if userID == 0 {
        return nil, errors.New("invalid user ID")
    }

    query := r.db.WithContext(ctx).Where("user_id = ?", userID)
    if completed != nil {
        query = query.Where("completed = ?", *completed)
    }

    var tasks []domain.Task
    err := query.Order("created_at ASC, id ASC").Find(&tasks).Error
    if err != nil {
        log.Printf("[TaskRepository] Database error finding tasks for user ID %d: %v", userID, err)
        return nil, errors.New("database error fetching tasks")
    }

    return tasks, nil
}

// Update saves the full task row. The WHERE clause keeps the write
// owner-scoped even if the caller's task struct was tampered with.
func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
    if task.ID == 0 || task.UserID == 0 {
        return errors.New("invalid task ID or user ID")
    }
    if err := r.validateTaskInput(task); err != nil {
        return fmt.Errorf("validation failed: %w", err)
    }

    result := r.db.WithContext(ctx).
        Model(&domain.Task{}).
        Where("id = ? AND user_id = ?", task.ID, task.UserID).
        Updates(map[string]interface{}{
            "title":       task.Title,
            "description": task.Description,
            "completed":   task.Completed,
        })
    if result.Error != nil {
        log.Printf("[TaskRepository] Database error updating task ID %d for user ID %d: %v", task.ID, task.UserID, result.Error)
        return errors.New("database error updating task")
    }
    if result.RowsAffected == 0 {
        return ErrTaskNotFound
    }

    return nil
}

// Delete removes an owner's task.
func (r *gormTaskRepository) Delete(ctx context.Context, taskID, userID uint) error {
    if taskID == 0 || userID == 0 {
        return errors.New("invalid task ID or user ID")
    }

    result := r.db.WithContext(ctx).
        Where("id = ? AND user_id = ?", taskID, userID).
        Delete(&domain.Task{})
    if result.Error != nil {
        log.Printf("[TaskRepository] Database error deleting task ID %d for user ID %d: %v", taskID, userID, result.Error)
        return errors.New("database error deleting task")
    }
    if result.RowsAffected == 0 {
        return ErrTaskNotFound
    }

    log.Printf("[TaskRepository] Task deleted successfully: ID %d for user %d", taskID, userID)
    return nil
}

// CountByUserID counts an owner's tasks without loading them.
func (r *gormTaskRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
    if userID == 0 {
        return 0, errors.New("invalid user ID")
    }

    var count int64
    err := r.db.WithContext(ctx).Model(&domain.Task{}).Where("user_id = ?", userID).Count(&count).Error
    if err != nil {
        log.Printf("[TaskRepository] Database error counting tasks for user ID %d: %v", userID, err)
        return 0, errors.New("database error counting user tasks")
    }

    return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormTaskRepository) validateTaskInput(task *domain.Task) error {
    if task == nil {
        return errors.New("task cannot be nil")
    }
    if task.UserID == 0 {
        return errors.New("user ID is required")
    }
    if strings.TrimSpace(task.Title) == "" {
        return errors.New("task title cannot be empty")
    }
    if len(task.Title) > domain.TaskTitleMaxLen {
        return fmt.Errorf("task title must be %d characters or less", domain.TaskTitleMaxLen)
    }
    if len(task.Description) > domain.TaskDescriptionMaxLen {
        return fmt.Errorf("task description must be %d characters or less", domain.TaskDescriptionMaxLen)
    }
    return nil
}

// ===== ERROR HANDLING HELPERS =====

// handleFindError keeps lookup failures generic so nothing about other
// owners' data leaks through error text.
func (r *gormTaskRepository) handleFindError(err error, task *domain.Task, operation string) (*domain.Task, error) {
    if err == nil {
        return task, nil
    }
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, ErrTaskNotFound
    }

    log.Printf("[TaskRepository] %s database error: %v", operation, err)
    return nil, errors.New("database query failed")
}
