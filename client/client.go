// File: client/client.go

// Package client is a Go client for the Todo Assistant API. It wraps the
// task and chat endpoints and provides TaskCache, an optimistic-update layer
// that mirrors how the web UI keeps its task list responsive.
package client

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"
)

// APIError is a non-2xx response decoded into its error payload.
type APIError struct {
    Status  int
    Message string
}

func (e *APIError) Error() string {
    return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one user's slice of the API. The user id and token must
// belong together; the server rejects mismatches with a 403.
type Client struct {
    baseURL    string
    userID     uint
    token      string
    httpClient *http.Client
}

func New(baseURL string, userID uint, token string) *Client {
    return &Client{
        baseURL:    baseURL,
        userID:     userID,
        token:      token,
        httpClient: &http.Client{Timeout: 120 * time.Second},
    }
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
    c.httpClient = hc
    return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
    var reqBody io.Reader
    if body != nil {
        encoded, err := json.Marshal(body)
        if err != nil {
            return fmt.Errorf("encode request: %w", err)
        }
        reqBody = bytes.NewReader(encoded)
    }

    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
    if err != nil {
        return err
    }
    req.Header.Set("Authorization", "Bearer "+c.token)
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }

    resp, err := c.httpClient.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        var payload struct {
            Error string `json:"error"`
        }
        _ = json.NewDecoder(resp.Body).Decode(&payload)
        if payload.Error == "" {
            payload.Error = http.StatusText(resp.StatusCode)
        }
        return &APIError{Status: resp.StatusCode, Message: payload.Error}
    }

    if out == nil || resp.StatusCode == http.StatusNoContent {
        return nil
    }
    return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) userPath(suffix string) string {
    return fmt.Sprintf("/api/%d%s", c.userID, suffix)
}

// ListTasks fetches the task list; status may be "all", "pending",
// "completed", or empty for all.
func (c *Client) ListTasks(ctx context.Context, status string) ([]Task, error) {
    path := c.userPath("/tasks")
    if status != "" {
        path += "?status=" + status
    }
    var out taskListResponse
    if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
        return nil, err
    }
    return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (*Task, error) {
    var out Task
    req := createTaskRequest{Title: title, Description: description}
    if err := c.do(ctx, http.MethodPost, c.userPath("/tasks"), req, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID uint, title, description *string) (*Task, error) {
    var out Task
    req := updateTaskRequest{Title: title, Description: description}
    path := c.userPath(fmt.Sprintf("/tasks/%d", taskID))
    if err := c.do(ctx, http.MethodPatch, path, req, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

func (c *Client) CompleteTask(ctx context.Context, taskID uint) (*Task, error) {
    var out Task
    path := c.userPath(fmt.Sprintf("/tasks/%d/complete", taskID))
    if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID uint) error {
    path := c.userPath(fmt.Sprintf("/tasks/%d", taskID))
    return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ChatResponse is one assistant turn as returned by the chat endpoint.
type ChatResponse struct {
    ConversationID uint   `json:"conversation_id"`
    Response       string `json:"response"`
    ResponseHTML   string `json:"response_html,omitempty"`
    ToolCalls      []struct {
        Tool      string                 `json:"tool"`
        Arguments map[string]interface{} `json:"arguments"`
        Result    interface{}            `json:"result"`
    } `json:"tool_calls"`
    Fallback bool `json:"fallback,omitempty"`
}

// Chat sends one message; conversationID 0 starts a new conversation.
func (c *Client) Chat(ctx context.Context, conversationID uint, message string) (*ChatResponse, error) {
    var out ChatResponse
    req := chatRequest{ConversationID: conversationID, Message: message}
    if err := c.do(ctx, http.MethodPost, c.userPath("/chat"), req, &out); err != nil {
        return nil, err
    }
    return &out, nil
}
