// File: internal/services/tools/service_test.go
package tools_test

import (
    "context"
    "encoding/json"
    "strings"
    "testing"

    "github.com/glebarez/sqlite"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/repository/task"
    "github.com/iyunix/go-todo-assistant/internal/services"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
)

func newTestService(t *testing.T) *tools.Service {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&domain.Task{}))

    svc, err := tools.NewService(task.NewTaskRepository(db), &services.NoOpLogger{})
    require.NoError(t, err)
    return svc
}

func TestAddThenListRoundTrip(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    created, err := svc.AddTask(ctx, 1, "buy milk", "")
    require.NoError(t, err)

    listed, err := svc.ListTasks(ctx, 1, tools.StatusAll)
    require.NoError(t, err)
    require.Len(t, listed, 1)
    assert.Equal(t, created.ID, listed[0].ID)
    assert.Equal(t, "buy milk", listed[0].Title)
}

func TestAddTaskValidation(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    _, err := svc.AddTask(ctx, 1, "   ", "")
    var toolErr *tools.ToolError
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeValidation, toolErr.Type)

    _, err = svc.AddTask(ctx, 1, strings.Repeat("x", domain.TaskTitleMaxLen+1), "")
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeValidation, toolErr.Type)
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    created, err := svc.AddTask(ctx, 1, "water plants", "")
    require.NoError(t, err)

    first, err := svc.CompleteTask(ctx, 1, created.ID)
    require.NoError(t, err)
    assert.True(t, first.Completed)

    // Second completion is a no-op success.
    second, err := svc.CompleteTask(ctx, 1, created.ID)
    require.NoError(t, err)
    assert.True(t, second.Completed)
}

func TestDeleteMissingTaskLeavesStoreUnchanged(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    _, err := svc.AddTask(ctx, 1, "keep me", "")
    require.NoError(t, err)

    _, err = svc.DeleteTask(ctx, 1, 99999)
    var toolErr *tools.ToolError
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeNotFound, toolErr.Type)

    listed, err := svc.ListTasks(ctx, 1, tools.StatusAll)
    require.NoError(t, err)
    assert.Len(t, listed, 1)
}

func TestCrossOwnerAccessLooksLikeNotFound(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    created, err := svc.AddTask(ctx, 1, "private", "")
    require.NoError(t, err)

    var toolErr *tools.ToolError
    _, err = svc.CompleteTask(ctx, 2, created.ID)
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeNotFound, toolErr.Type)

    _, err = svc.UpdateTask(ctx, 2, created.ID, strPtr("stolen"), nil)
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeNotFound, toolErr.Type)
}

func TestUpdateTaskPartial(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    created, err := svc.AddTask(ctx, 1, "old title", "old description")
    require.NoError(t, err)

    updated, err := svc.UpdateTask(ctx, 1, created.ID, strPtr("new title"), nil)
    require.NoError(t, err)
    assert.Equal(t, "new title", updated.Title)
    assert.Equal(t, "old description", updated.Description)

    _, err = svc.UpdateTask(ctx, 1, created.ID, nil, nil)
    var toolErr *tools.ToolError
    require.ErrorAs(t, err, &toolErr)
    assert.Equal(t, tools.ErrTypeValidation, toolErr.Type)
}

func TestListTasksStatusFilter(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    open, err := svc.AddTask(ctx, 1, "open", "")
    require.NoError(t, err)
    done, err := svc.AddTask(ctx, 1, "done", "")
    require.NoError(t, err)
    _, err = svc.CompleteTask(ctx, 1, done.ID)
    require.NoError(t, err)

    pending, err := svc.ListTasks(ctx, 1, tools.StatusPending)
    require.NoError(t, err)
    require.Len(t, pending, 1)
    assert.Equal(t, open.ID, pending[0].ID)

    completed, err := svc.ListTasks(ctx, 1, tools.StatusCompleted)
    require.NoError(t, err)
    require.Len(t, completed, 1)
    assert.Equal(t, done.ID, completed[0].ID)

    _, err = svc.ListTasks(ctx, 1, "bogus")
    assert.Error(t, err)
}

func TestDispatchAddAndComplete(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    result, err := svc.Dispatch(ctx, 1, tools.ToolAddTask, json.RawMessage(`{"title":"buy milk"}`))
    require.NoError(t, err)
    payload := result.(map[string]interface{})
    assert.Equal(t, "created", payload["status"])
    assert.Equal(t, "buy milk", payload["title"])

    taskID := payload["task_id"].(uint)
    raw, err := json.Marshal(map[string]uint{"task_id": taskID})
    require.NoError(t, err)

    result, err = svc.Dispatch(ctx, 1, tools.ToolCompleteTask, raw)
    require.NoError(t, err)
    payload = result.(map[string]interface{})
    assert.Equal(t, "completed", payload["status"])
}

func TestDispatchEncodesExpectedFailuresAsResults(t *testing.T) {
    svc := newTestService(t)
    ctx := context.Background()

    // Not found becomes a result payload the model can narrate, not an error.
    result, err := svc.Dispatch(ctx, 1, tools.ToolDeleteTask, json.RawMessage(`{"task_id":99999}`))
    require.NoError(t, err)
    payload := result.(map[string]interface{})
    assert.Equal(t, "not_found", payload["error"])

    result, err = svc.Dispatch(ctx, 1, tools.ToolAddTask, json.RawMessage(`{"title":""}`))
    require.NoError(t, err)
    payload = result.(map[string]interface{})
    assert.Equal(t, "validation_error", payload["error"])
}

func TestDispatchUnknownTool(t *testing.T) {
    svc := newTestService(t)

    _, err := svc.Dispatch(context.Background(), 1, "drop_database", json.RawMessage(`{}`))
    assert.Error(t, err)
}

func TestDefinitionsExposeFiveTools(t *testing.T) {
    defs := tools.Definitions()
    require.Len(t, defs, 5)

    names := make(map[string]bool)
    for _, d := range defs {
        names[d.Function.Name] = true
        // Owner identity must never appear in a model-facing schema.
        assert.NotContains(t, string(d.Function.Parameters.(json.RawMessage)), "user_id")
    }
    assert.True(t, names[tools.ToolAddTask])
    assert.True(t, names[tools.ToolListTasks])
    assert.True(t, names[tools.ToolCompleteTask])
    assert.True(t, names[tools.ToolDeleteTask])
    assert.True(t, names[tools.ToolUpdateTask])
}

func strPtr(s string) *string { return &s }
