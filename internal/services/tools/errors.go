// File: internal/services/tools/errors.go
package tools

import "fmt"

type ErrorType string

const (
    ErrTypeValidation ErrorType = "VALIDATION"
    ErrTypeNotFound   ErrorType = "NOT_FOUND"
    ErrTypeInternal   ErrorType = "INTERNAL"
)

// ToolError is the error type for every task operation. The Type field is
// what handlers and the orchestrator branch on.
type ToolError struct {
    Type      ErrorType
    Operation string
    Message   string
    Cause     error
}

func (e *ToolError) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("Tool %s error in %s: %s (caused by: %v)",
            e.Type, e.Operation, e.Message, e.Cause)
    }
    return fmt.Sprintf("Tool %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ToolError) Unwrap() error {
    return e.Cause
}

func NewValidationError(operation, msg string) *ToolError {
    return &ToolError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

// NewNotFoundError never distinguishes "absent" from "owned by someone else"
// so task existence cannot leak across owners.
func NewNotFoundError(operation string, taskID uint) *ToolError {
    return &ToolError{
        Type:      ErrTypeNotFound,
        Operation: operation,
        Message:   fmt.Sprintf("task %d not found", taskID),
    }
}

func NewInternalError(operation, msg string, cause error) *ToolError {
    return &ToolError{Type: ErrTypeInternal, Operation: operation, Message: msg, Cause: cause}
}
