// File: internal/handlers/helpers.go
package handlers

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "github.com/iyunix/go-todo-assistant/internal/middleware"
    "github.com/iyunix/go-todo-assistant/internal/repository/conversation"
    "github.com/iyunix/go-todo-assistant/internal/repository/task"
    "github.com/iyunix/go-todo-assistant/internal/services/chat"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
    "github.com/iyunix/go-todo-assistant/internal/services/user_services"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
    writeJSON(w, status, map[string]string{"error": message})
}

// statusFromError maps service and repository errors onto HTTP statuses.
// Anything unrecognized is a 500; the caller decides the message.
func statusFromError(err error) int {
    var toolErr *tools.ToolError
    if errors.As(err, &toolErr) {
        switch toolErr.Type {
        case tools.ErrTypeValidation:
            return http.StatusBadRequest
        case tools.ErrTypeNotFound:
            return http.StatusNotFound
        }
        return http.StatusInternalServerError
    }

    var chatErr *chat.ChatError
    if errors.As(err, &chatErr) {
        switch chatErr.Type {
        case chat.ErrTypeValidation:
            return http.StatusBadRequest
        case chat.ErrTypeNotFound:
            return http.StatusNotFound
        case chat.ErrTypeForbidden:
            return http.StatusForbidden
        case chat.ErrTypeUpstream:
            return http.StatusBadGateway
        }
        return http.StatusInternalServerError
    }

    switch {
    case errors.Is(err, user_services.ErrInvalidCredentials):
        return http.StatusUnauthorized
    case errors.Is(err, user_services.ErrEmailTaken):
        return http.StatusConflict
    case errors.Is(err, task.ErrTaskNotFound):
        return http.StatusNotFound
    case errors.Is(err, conversation.ErrConversationNotFound):
        return http.StatusNotFound
    case errors.Is(err, conversation.ErrUnauthorizedAccess):
        return http.StatusForbidden
    }
    return http.StatusInternalServerError
}

// publicMessage keeps 5xx details out of responses while passing client
// errors through verbatim.
func publicMessage(err error, status int) string {
    if status >= 500 {
        return "Something went wrong on our end."
    }

    var toolErr *tools.ToolError
    if errors.As(err, &toolErr) {
        return toolErr.Message
    }
    var chatErr *chat.ChatError
    if errors.As(err, &chatErr) {
        return chatErr.Message
    }
    return err.Error()
}

// writeServiceError is the single exit for handler failures.
func writeServiceError(w http.ResponseWriter, err error) {
    status := statusFromError(err)
    writeError(w, publicMessage(err, status), status)
}

// authorizedUserID extracts the {user_id} path variable and checks it against
// the token's subject. The path segment is cosmetic for routing; the token is
// the authority, and a mismatch is a 403.
func authorizedUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
    tokenUserID, ok := middleware.UserIDFromRequest(r)
    if !ok {
        writeError(w, "Unauthorized", http.StatusUnauthorized)
        return 0, false
    }

    raw, present := mux.Vars(r)["user_id"]
    if !present {
        return tokenUserID, true
    }

    pathUserID, err := strconv.ParseUint(raw, 10, 32)
    if err != nil || pathUserID == 0 {
        writeError(w, "Invalid user ID", http.StatusBadRequest)
        return 0, false
    }
    if uint(pathUserID) != tokenUserID {
        writeError(w, "Forbidden", http.StatusForbidden)
        return 0, false
    }
    return tokenUserID, true
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (uint, error) {
    raw := mux.Vars(r)[name]
    id, err := strconv.ParseUint(raw, 10, 32)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return uint(id), nil
}
