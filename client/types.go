// File: client/types.go
package client

// Task is one task row as the API returns it.
type Task struct {
    ID          uint   `json:"id"`
    Title       string `json:"title"`
    Description string `json:"description,omitempty"`
    Completed   bool   `json:"completed"`
    CreatedAt   string `json:"created_at"`
    UpdatedAt   string `json:"updated_at"`
}

type taskListResponse struct {
    Tasks []Task `json:"tasks"`
    Count int    `json:"count"`
}

type createTaskRequest struct {
    Title       string `json:"title"`
    Description string `json:"description"`
}

type updateTaskRequest struct {
    Title       *string `json:"title,omitempty"`
    Description *string `json:"description,omitempty"`
}

type chatRequest struct {
    ConversationID uint   `json:"conversation_id,omitempty"`
    Message        string `json:"message"`
}
