// File: internal/handlers/task_handler.go
package handlers

import (
    "encoding/json"
    "net/http"

    "github.com/iyunix/go-todo-assistant/internal/dtos"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
)

// TaskHandler exposes task CRUD over REST. It calls the same tool service
// the assistant does, so both surfaces share one set of validation and
// ownership rules.
type TaskHandler struct {
    Tools *tools.Service
}

func NewTaskHandler(toolSvc *tools.Service) *TaskHandler {
    return &TaskHandler{Tools: toolSvc}
}

// ListTasks handles GET /api/{user_id}/tasks?status=pending|completed|all
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    status := r.URL.Query().Get("status")
    if status == "" {
        status = tools.StatusAll
    }

    tasksList, err := h.Tools.ListTasks(r.Context(), userID, status)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.TasksFromDomain(tasksList))
}

// CreateTask handles POST /api/{user_id}/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    var req dtos.TaskCreateRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    created, err := h.Tools.AddTask(r.Context(), userID, req.Title, req.Description)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, dtos.TaskFromDomain(*created))
}

// GetTask handles GET /api/{user_id}/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    taskID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid task ID", http.StatusBadRequest)
        return
    }

    found, err := h.Tools.GetTask(r.Context(), userID, taskID)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.TaskFromDomain(*found))
}

// UpdateTask handles PUT and PATCH /api/{user_id}/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    taskID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid task ID", http.StatusBadRequest)
        return
    }

    var req dtos.TaskUpdateRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    updated, err := h.Tools.UpdateTask(r.Context(), userID, taskID, req.Title, req.Description)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.TaskFromDomain(*updated))
}

// CompleteTask handles PATCH /api/{user_id}/tasks/{id}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    taskID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid task ID", http.StatusBadRequest)
        return
    }

    completed, err := h.Tools.CompleteTask(r.Context(), userID, taskID)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, dtos.TaskFromDomain(*completed))
}

// DeleteTask handles DELETE /api/{user_id}/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    taskID, err := pathID(r, "id")
    if err != nil {
        writeError(w, "Invalid task ID", http.StatusBadRequest)
        return
    }

    if _, err := h.Tools.DeleteTask(r.Context(), userID, taskID); err != nil {
        writeServiceError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
