// File: internal/handlers/chat_handler.go
package handlers

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/iyunix/go-todo-assistant/internal/dtos"
    "github.com/iyunix/go-todo-assistant/internal/services"
)

// ChatHandler exposes the conversational surface: one turn endpoint plus
// conversation management.
type ChatHandler struct {
    ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
    return &ChatHandler{ChatService: cs}
}

// HandleChatMessage handles POST /api/{user_id}/chat
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    var req dtos.ChatRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    result, err := h.ChatService.HandleMessage(r.Context(), userID, req.ConversationID, req.Message)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, result)
}

// GetUserConversations handles GET /api/{user_id}/conversations?limit=&offset=
func (h *ChatHandler) GetUserConversations(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

    convs, total, err := h.ChatService.GetUserConversations(r.Context(), userID, limit, offset)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.ConversationsFromDomain(convs, total))
}

// GetConversationMessages handles GET /api/{user_id}/conversations/{id}/messages
func (h *ChatHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    convID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid conversation ID", http.StatusBadRequest)
        return
    }

    msgs, err := h.ChatService.GetConversationMessages(r.Context(), userID, convID)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.MessagesFromDomain(msgs))
}

// DeleteConversation handles DELETE /api/{user_id}/conversations/{id}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    convID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid conversation ID", http.StatusBadRequest)
        return
    }

    if err := h.ChatService.DeleteConversation(r.Context(), userID, convID); err != nil {
        writeServiceError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
