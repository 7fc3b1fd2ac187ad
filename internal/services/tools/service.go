// File: internal/services/tools/service.go

package tools

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/repository/task"
)

// Status filter values accepted by ListTasks.
const (
    StatusAll       = "all"
    StatusPending   = "pending"
    StatusCompleted = "completed"
)

// Logger interface for the tool layer
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}

// Service implements the five task operations. It is the single mutation
// path for tasks: both the REST handlers and the agent's tool dispatch go
// through it, so ownership scoping and validation live in exactly one place.
type Service struct {
    taskRepo task.TaskRepository
    logger   Logger
}

func NewService(taskRepo task.TaskRepository, logger Logger) (*Service, error) {
    if taskRepo == nil {
        return nil, NewValidationError("constructor", "task repository is required")
    }
    if logger == nil {
        return nil, NewValidationError("constructor", "logger is required")
    }
    return &Service{taskRepo: taskRepo, logger: logger}, nil
}

// AddTask creates a task for the owner.
func (s *Service) AddTask(ctx context.Context, userID uint, title, description string) (*domain.Task, error) {
    title = strings.TrimSpace(title)
    if err := validateTitle(title); err != nil {
        return nil, err
    }
    if len(description) > domain.TaskDescriptionMaxLen {
        return nil, NewValidationError("add_task",
            fmt.Sprintf("description must be %d characters or less", domain.TaskDescriptionMaxLen))
    }

    created, err := s.taskRepo.Create(ctx, &domain.Task{
        UserID:      userID,
        Title:       title,
        Description: description,
    })
    if err != nil {
        return nil, NewInternalError("add_task", "could not create task", err)
    }

    s.logger.Info("task created", "task_id", created.ID, "user_id", userID)
    return created, nil
}

// ListTasks returns the owner's tasks in creation order, filtered by status.
func (s *Service) ListTasks(ctx context.Context, userID uint, status string) ([]domain.Task, error) {
    var completed *bool
    switch status {
    case StatusAll, "":
        // no filter
    case StatusPending:
        f := false
        completed = &f
    case StatusCompleted:
        t := true
        completed = &t
    default:
        return nil, NewValidationError("list_tasks",
            `status must be one of "all", "pending", "completed"`)
    }

    tasks, err := s.taskRepo.FindByUserID(ctx, userID, completed)
    if err != nil {
        return nil, NewInternalError("list_tasks", "could not list tasks", err)
    }
    return tasks, nil
}

// GetTask fetches a single owner-scoped task.
func (s *Service) GetTask(ctx context.Context, userID, taskID uint) (*domain.Task, error) {
    t, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
    if err != nil {
        return nil, s.mapLookupError("get_task", taskID, err)
    }
    return t, nil
}

// CompleteTask marks a task completed. Completing an already-completed task
// is a no-op success, not an error.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID uint) (*domain.Task, error) {
    t, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
    if err != nil {
        return nil, s.mapLookupError("complete_task", taskID, err)
    }

    if t.Completed {
        s.logger.Debug("task already completed", "task_id", taskID, "user_id", userID)
        return t, nil
    }

    t.Completed = true
    if err := s.taskRepo.Update(ctx, t); err != nil {
        if errors.Is(err, task.ErrTaskNotFound) {
            return nil, NewNotFoundError("complete_task", taskID)
        }
        return nil, NewInternalError("complete_task", "could not complete task", err)
    }

    s.logger.Info("task completed", "task_id", taskID, "user_id", userID)
    return t, nil
}

// DeleteTask removes a task and returns the deleted record so callers can
// narrate the action by title.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID uint) (*domain.Task, error) {
    t, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
    if err != nil {
        return nil, s.mapLookupError("delete_task", taskID, err)
    }

    if err := s.taskRepo.Delete(ctx, taskID, userID); err != nil {
        if errors.Is(err, task.ErrTaskNotFound) {
            return nil, NewNotFoundError("delete_task", taskID)
        }
        return nil, NewInternalError("delete_task", "could not delete task", err)
    }

    s.logger.Info("task deleted", "task_id", taskID, "user_id", userID)
    return t, nil
}

// UpdateTask applies a partial update. Nil fields are left unchanged; at
// least one of title/description must be provided.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID uint, title, description *string) (*domain.Task, error) {
    if title == nil && description == nil {
        return nil, NewValidationError("update_task",
            "at least one of title or description must be provided")
    }

    t, err := s.taskRepo.FindByIDAndUserID(ctx, taskID, userID)
    if err != nil {
        return nil, s.mapLookupError("update_task", taskID, err)
    }

    if title != nil {
        trimmed := strings.TrimSpace(*title)
        if err := validateTitle(trimmed); err != nil {
            return nil, err
        }
        t.Title = trimmed
    }
    if description != nil {
        if len(*description) > domain.TaskDescriptionMaxLen {
            return nil, NewValidationError("update_task",
                fmt.Sprintf("description must be %d characters or less", domain.TaskDescriptionMaxLen))
        }
        t.Description = *description
    }

    if err := s.taskRepo.Update(ctx, t); err != nil {
        if errors.Is(err, task.ErrTaskNotFound) {
            return nil, NewNotFoundError("update_task", taskID)
        }
        return nil, NewInternalError("update_task", "could not update task", err)
    }

    s.logger.Info("task updated", "task_id", taskID, "user_id", userID)
    return t, nil
}

func (s *Service) mapLookupError(operation string, taskID uint, err error) error {
    if errors.Is(err, task.ErrTaskNotFound) {
        return NewNotFoundError(operation, taskID)
    }
    return NewInternalError(operation, "task lookup failed", err)
}

func validateTitle(title string) error {
    if title == "" {
        return NewValidationError("title", "task title cannot be empty")
    }
    if len(title) > domain.TaskTitleMaxLen {
        return NewValidationError("title",
            fmt.Sprintf("task title must be %d characters or less", domain.TaskTitleMaxLen))
    }
    return nil
}
