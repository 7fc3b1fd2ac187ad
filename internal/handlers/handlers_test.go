// File: internal/handlers/handlers_test.go
package handlers_test

import (
    "bytes"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/glebarez/sqlite"
    "github.com/gorilla/mux"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/handlers"
    "github.com/iyunix/go-todo-assistant/internal/middleware"
    "github.com/iyunix/go-todo-assistant/internal/repository/conversation"
    "github.com/iyunix/go-todo-assistant/internal/repository/message"
    "github.com/iyunix/go-todo-assistant/internal/repository/task"
    "github.com/iyunix/go-todo-assistant/internal/repository/user"
    "github.com/iyunix/go-todo-assistant/internal/services"
    "github.com/iyunix/go-todo-assistant/internal/services/agent"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
    "github.com/iyunix/go-todo-assistant/internal/services/user_services"
)

// newTestRouter wires the API the way cmd/server does, minus rate limiting,
// over an in-memory database. The agent runs in rule-based mode.
func newTestRouter(t *testing.T) *mux.Router {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &domain.User{}, &domain.Task{}, &domain.Conversation{}, &domain.Message{},
    ))

    logger := &services.NoOpLogger{}

    toolSvc, err := tools.NewService(task.NewTaskRepository(db), logger)
    require.NoError(t, err)
    runner, err := agent.NewRunner(nil, toolSvc, nil, logger)
    require.NoError(t, err)
    chatSvc, err := services.NewChatService(
        conversation.NewConversationRepository(db),
        message.NewMessageRepository(db),
        runner, nil, logger,
    )
    require.NoError(t, err)
    userSvc, err := user_services.NewUserService(user.NewGormUserRepository(db), "test-secret", logger)
    require.NoError(t, err)

    authHandler := handlers.NewAuthHandler(userSvc)
    taskHandler := handlers.NewTaskHandler(toolSvc)
    chatHandler := handlers.NewChatHandler(chatSvc)
    healthHandler := handlers.NewHealthHandler(db)

    r := mux.NewRouter()
    r.HandleFunc("/health", healthHandler.Health).Methods("GET")
    r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
    r.HandleFunc("/api/auth/signin", authHandler.Signin).Methods("POST")

    api := r.PathPrefix("/api/{user_id:[0-9]+}").Subrouter()
    api.Use(middleware.NewJWTMiddleware(userSvc))
    api.HandleFunc("/me", authHandler.Me).Methods("GET")
    api.HandleFunc("/tasks", taskHandler.ListTasks).Methods("GET")
    api.HandleFunc("/tasks", taskHandler.CreateTask).Methods("POST")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.GetTask).Methods("GET")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.UpdateTask).Methods("PUT", "PATCH")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.DeleteTask).Methods("DELETE")
    api.HandleFunc("/tasks/{id:[0-9]+}/complete", taskHandler.CompleteTask).Methods("PATCH")
    api.HandleFunc("/chat", chatHandler.HandleChatMessage).Methods("POST")
    api.HandleFunc("/conversations", chatHandler.GetUserConversations).Methods("GET")
    api.HandleFunc("/conversations/{id:[0-9]+}/messages", chatHandler.GetConversationMessages).Methods("GET")
    api.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")
    return r
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
    t.Helper()
    var reqBody *bytes.Reader
    if body != nil {
        encoded, err := json.Marshal(body)
        require.NoError(t, err)
        reqBody = bytes.NewReader(encoded)
    } else {
        reqBody = bytes.NewReader(nil)
    }

    req := httptest.NewRequest(method, path, reqBody)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    rec := httptest.NewRecorder()
    router.ServeHTTP(rec, req)
    return rec
}

func signup(t *testing.T, router *mux.Router, email string) (userID uint, token string) {
    t.Helper()
    rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
        "email": email, "name": "Test User", "password": "password123",
    })
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    var resp struct {
        User struct {
            ID uint `json:"id"`
        } `json:"user"`
        Token string `json:"token"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    return resp.User.ID, resp.Token
}

func TestHealth(t *testing.T) {
    router := newTestRouter(t)

    rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "ok")
}

func TestSignupAndSignin(t *testing.T) {
    router := newTestRouter(t)

    userID, token := signup(t, router, "ada@example.com")
    require.NotZero(t, userID)
    require.NotEmpty(t, token)

    // Duplicate email conflicts.
    rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
        "email": "ada@example.com", "name": "Again", "password": "password123",
    })
    assert.Equal(t, http.StatusConflict, rec.Code)

    rec = doJSON(t, router, http.MethodPost, "/api/auth/signin", "", map[string]string{
        "email": "ada@example.com", "password": "password123",
    })
    assert.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(t, router, http.MethodPost, "/api/auth/signin", "", map[string]string{
        "email": "ada@example.com", "password": "wrong",
    })
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired(t *testing.T) {
    router := newTestRouter(t)
    userID, token := signup(t, router, "ada@example.com")

    // No token.
    rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/%d/tasks", userID), "", nil)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Garbage token.
    rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/%d/tasks", userID), "not.a.token", nil)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Valid token but someone else's path.
    rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/%d/tasks", userID+1), token, nil)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskCRUD(t *testing.T) {
    router := newTestRouter(t)
    userID, token := signup(t, router, "ada@example.com")
    base := fmt.Sprintf("/api/%d", userID)

    rec := doJSON(t, router, http.MethodPost, base+"/tasks", token, map[string]string{
        "title": "buy milk", "description": "2 liters",
    })
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    var created struct {
        ID    uint   `json:"id"`
        Title string `json:"title"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
    assert.Equal(t, "buy milk", created.Title)

    rec = doJSON(t, router, http.MethodGet, base+"/tasks", token, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    var listed struct {
        Count int `json:"count"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
    assert.Equal(t, 1, listed.Count)

    rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("%s/tasks/%d/complete", base, created.ID), token, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    var completed struct {
        Completed bool `json:"completed"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
    assert.True(t, completed.Completed)

    newTitle := "buy oat milk"
    rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("%s/tasks/%d", base, created.ID), token,
        map[string]*string{"title": &newTitle})
    require.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("%s/tasks/%d", base, created.ID), token, nil)
    assert.Equal(t, http.StatusNoContent, rec.Code)

    rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("%s/tasks/%d", base, created.ID), token, nil)
    assert.Equal(t, http.StatusNotFound, rec.Code)

    // Bad input is rejected before it reaches the store.
    rec = doJSON(t, router, http.MethodPost, base+"/tasks", token, map[string]string{"title": "  "})
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndToEnd(t *testing.T) {
    router := newTestRouter(t)
    userID, token := signup(t, router, "ada@example.com")
    base := fmt.Sprintf("/api/%d", userID)

    rec := doJSON(t, router, http.MethodPost, base+"/chat", token, map[string]interface{}{
        "message": "Add a task to buy milk",
    })
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

    var chatResp struct {
        ConversationID uint   `json:"conversation_id"`
        Response       string `json:"response"`
        ResponseHTML   string `json:"response_html"`
        ToolCalls      []struct {
            Tool string `json:"tool"`
        } `json:"tool_calls"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))
    require.NotZero(t, chatResp.ConversationID)
    assert.Contains(t, chatResp.Response, "buy milk")
    assert.NotEmpty(t, chatResp.ResponseHTML)
    require.Len(t, chatResp.ToolCalls, 1)
    assert.Equal(t, "add_task", chatResp.ToolCalls[0].Tool)

    // The created task is visible on the CRUD surface.
    rec = doJSON(t, router, http.MethodGet, base+"/tasks", token, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "buy milk")

    // Continue the conversation, then read the transcript back.
    rec = doJSON(t, router, http.MethodPost, base+"/chat", token, map[string]interface{}{
        "conversation_id": chatResp.ConversationID,
        "message":         "show my tasks",
    })
    require.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(t, router, http.MethodGet,
        fmt.Sprintf("%s/conversations/%d/messages", base, chatResp.ConversationID), token, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    var msgs []struct {
        Role string `json:"role"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
    assert.Len(t, msgs, 4)

    rec = doJSON(t, router, http.MethodGet, base+"/conversations", token, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"total":1`)

    rec = doJSON(t, router, http.MethodDelete,
        fmt.Sprintf("%s/conversations/%d", base, chatResp.ConversationID), token, nil)
    assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChatConversationIsolation(t *testing.T) {
    router := newTestRouter(t)
    aliceID, aliceToken := signup(t, router, "alice@example.com")
    bobID, bobToken := signup(t, router, "bob@example.com")

    rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/%d/chat", aliceID), aliceToken,
        map[string]interface{}{"message": "Add a task to buy milk"})
    require.Equal(t, http.StatusOK, rec.Code)
    var chatResp struct {
        ConversationID uint `json:"conversation_id"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))

    // Bob cannot continue Alice's conversation.
    rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/%d/chat", bobID), bobToken,
        map[string]interface{}{"conversation_id": chatResp.ConversationID, "message": "hello"})
    assert.Equal(t, http.StatusForbidden, rec.Code)

    // A conversation id that never existed is 404.
    rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/%d/chat", bobID), bobToken,
        map[string]interface{}{"conversation_id": 99999, "message": "hello"})
    assert.Equal(t, http.StatusNotFound, rec.Code)

    // Bob's task list is untouched by Alice's chat.
    rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/%d/tasks", bobID), bobToken, nil)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"count":0`)
}
