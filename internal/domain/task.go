// File: internal/domain/task.go
package domain

import "time"

const (
	TaskTitleMaxLen       = 200
	TaskDescriptionMaxLen = 1000
)

// Task represents a single todo item. Every task has exactly one owner;
// all reads and writes are scoped by UserID.
type Task struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
