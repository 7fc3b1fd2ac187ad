// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
    ErrTypeConfig     ErrorType = "CONFIG"
    ErrTypeValidation ErrorType = "VALIDATION"
    ErrTypeNotFound   ErrorType = "NOT_FOUND"
    ErrTypeForbidden  ErrorType = "FORBIDDEN"
    ErrTypeUpstream   ErrorType = "UPSTREAM"
    ErrTypeInternal   ErrorType = "INTERNAL"
)

type ChatError struct {
    Type           ErrorType
    Operation      string
    Message        string
    ConversationID uint
    UserID         uint
    Cause          error
}

func (e *ChatError) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
            e.Type, e.Operation, e.Message, e.Cause)
    }
    return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
    return e.Cause
}

func NewValidationError(operation, msg string) *ChatError {
    return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

// NewNotFoundError reports a conversation that does not exist at all.
func NewNotFoundError(operation string, conversationID uint) *ChatError {
    return &ChatError{
        Type:           ErrTypeNotFound,
        Operation:      operation,
        Message:        fmt.Sprintf("conversation %d not found", conversationID),
        ConversationID: conversationID,
    }
}

// NewForbiddenError reports a conversation that exists but belongs to a
// different owner. Distinct from NotFound: the two map to different HTTP
// statuses at the handler layer.
func NewForbiddenError(userID, conversationID uint) *ChatError {
    return &ChatError{
        Type:           ErrTypeForbidden,
        Operation:      "authorization",
        Message:        "conversation belongs to another user",
        UserID:         userID,
        ConversationID: conversationID,
    }
}

func NewInternalError(operation, msg string, cause error) *ChatError {
    return &ChatError{Type: ErrTypeInternal, Operation: operation, Message: msg, Cause: cause}
}
