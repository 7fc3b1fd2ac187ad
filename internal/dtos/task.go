// File: internal/dtos/task.go
package dtos

import (
    "time"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// TaskResponseDTO is the API shape of a task.
type TaskResponseDTO struct {
    ID          uint   `json:"id"`
    Title       string `json:"title"`
    Description string `json:"description,omitempty"`
    Completed   bool   `json:"completed"`
    CreatedAt   string `json:"created_at"`
    UpdatedAt   string `json:"updated_at"`
}

// TaskCreateRequestDTO represents the payload to create a task.
type TaskCreateRequestDTO struct {
    Title       string `json:"title"`
    Description string `json:"description"`
}

// TaskUpdateRequestDTO represents a partial task update; nil fields are left
// untouched.
type TaskUpdateRequestDTO struct {
    Title       *string `json:"title,omitempty"`
    Description *string `json:"description,omitempty"`
}

// TaskListResponseDTO wraps a task listing with its count.
type TaskListResponseDTO struct {
    Tasks []TaskResponseDTO `json:"tasks"`
    Count int               `json:"count"`
}

// TaskFromDomain maps a domain.Task to its API shape.
func TaskFromDomain(task domain.Task) TaskResponseDTO {
    return TaskResponseDTO{
        ID:          task.ID,
        Title:       task.Title,
        Description: task.Description,
        Completed:   task.Completed,
        CreatedAt:   task.CreatedAt.Format(time.RFC3339),
        UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
    }
}

// TasksFromDomain maps a slice of tasks, preserving order.
func TasksFromDomain(tasks []domain.Task) TaskListResponseDTO {
    out := make([]TaskResponseDTO, len(tasks))
    for i, t := range tasks {
        out[i] = TaskFromDomain(t)
    }
    return TaskListResponseDTO{Tasks: out, Count: len(out)}
}
