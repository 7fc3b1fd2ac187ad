// File: internal/services/tools/registry.go

package tools

import (
    "context"
    "encoding/json"
    "fmt"

    openai "github.com/sashabaranov/go-openai"
)

// Tool names exposed to the language model. The set is closed: dispatch is a
// switch over these five names, not a plugin mechanism.
const (
    ToolAddTask      = "add_task"
    ToolListTasks    = "list_tasks"
    ToolCompleteTask = "complete_task"
    ToolDeleteTask   = "delete_task"
    ToolUpdateTask   = "update_task"
)

// Definitions returns the five task operations as callable functions for the
// model. Owner identity is deliberately absent from every schema: the
// authenticated user ID is injected at dispatch time and model-supplied
// owner ids are never trusted.
func Definitions() []openai.Tool {
    return []openai.Tool{
        functionTool(ToolAddTask, "Create a new task for the user", `{
            "type": "object",
            "properties": {
                "title": {"type": "string", "description": "Task title (1-200 characters)"},
                "description": {"type": "string", "description": "Optional task description (max 1000 characters)"}
            },
            "required": ["title"]
        }`),
        functionTool(ToolListTasks, "List the user's tasks, optionally filtered by status", `{
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["all", "pending", "completed"], "description": "Filter tasks by completion status"}
            }
        }`),
        functionTool(ToolCompleteTask, "Mark a task as completed", `{
            "type": "object",
            "properties": {
                "task_id": {"type": "integer", "description": "ID of the task to complete"}
            },
            "required": ["task_id"]
        }`),
        functionTool(ToolDeleteTask, "Delete a task permanently", `{
            "type": "object",
            "properties": {
                "task_id": {"type": "integer", "description": "ID of the task to delete"}
            },
            "required": ["task_id"]
        }`),
        functionTool(ToolUpdateTask, "Update a task's title and/or description", `{
            "type": "object",
            "properties": {
                "task_id": {"type": "integer", "description": "ID of the task to update"},
                "title": {"type": "string", "description": "New task title"},
                "description": {"type": "string", "description": "New task description"}
            },
            "required": ["task_id"]
        }`),
    }
}

func functionTool(name, description, schema string) openai.Tool {
    return openai.Tool{
        Type: openai.ToolTypeFunction,
        Function: &openai.FunctionDefinition{
            Name:        name,
            Description: description,
            Parameters:  json.RawMessage(schema),
        },
    }
}

type addTaskArgs struct {
    Title       string `json:"title"`
    Description string `json:"description"`
}

type listTasksArgs struct {
    Status string `json:"status"`
}

type taskIDArgs struct {
    TaskID uint `json:"task_id"`
}

type updateTaskArgs struct {
    TaskID      uint    `json:"task_id"`
    Title       *string `json:"title"`
    Description *string `json:"description"`
}

// Dispatch executes a named tool for the authenticated owner and returns a
// JSON-encodable result the model can narrate from. Validation and not-found
// failures are encoded into the result rather than returned as errors, so
// the agent can explain them conversationally; only internal failures and
// malformed invocations surface as Go errors.
func (s *Service) Dispatch(ctx context.Context, userID uint, name string, rawArgs json.RawMessage) (interface{}, error) {
    switch name {
    case ToolAddTask:
        var args addTaskArgs
        if err := json.Unmarshal(rawArgs, &args); err != nil {
            return nil, NewValidationError(name, "malformed tool arguments")
        }
        created, err := s.AddTask(ctx, userID, args.Title, args.Description)
        if err != nil {
            return toolErrorResult(err)
        }
        return map[string]interface{}{
            "task_id": created.ID,
            "status":  "created",
            "title":   created.Title,
        }, nil

    case ToolListTasks:
        var args listTasksArgs
        if err := json.Unmarshal(rawArgs, &args); err != nil {
            return nil, NewValidationError(name, "malformed tool arguments")
        }
        tasks, err := s.ListTasks(ctx, userID, args.Status)
        if err != nil {
            return toolErrorResult(err)
        }
        items := make([]map[string]interface{}, 0, len(tasks))
        for _, t := range tasks {
            items = append(items, map[string]interface{}{
                "id":        t.ID,
                "title":     t.Title,
                "completed": t.Completed,
            })
        }
        return map[string]interface{}{"tasks": items, "count": len(items)}, nil

    case ToolCompleteTask:
        var args taskIDArgs
        if err := json.Unmarshal(rawArgs, &args); err != nil {
            return nil, NewValidationError(name, "malformed tool arguments")
        }
        completed, err := s.CompleteTask(ctx, userID, args.TaskID)
        if err != nil {
            return toolErrorResult(err)
        }
        return map[string]interface{}{
            "task_id": completed.ID,
            "status":  "completed",
            "title":   completed.Title,
        }, nil

    case ToolDeleteTask:
        var args taskIDArgs
        if err := json.Unmarshal(rawArgs, &args); err != nil {
            return nil, NewValidationError(name, "malformed tool arguments")
        }
        deleted, err := s.DeleteTask(ctx, userID, args.TaskID)
        if err != nil {
            return toolErrorResult(err)
        }
        return map[string]interface{}{
            "task_id": deleted.ID,
            "status":  "deleted",
            "title":   deleted.Title,
        }, nil

    case ToolUpdateTask:
        var args updateTaskArgs
        if err := json.Unmarshal(rawArgs, &args); err != nil {
            return nil, NewValidationError(name, "malformed tool arguments")
        }
        updated, err := s.UpdateTask(ctx, userID, args.TaskID, args.Title, args.Description)
        if err != nil {
            return toolErrorResult(err)
        }
        return map[string]interface{}{
            "task_id": updated.ID,
            "status":  "updated",
            "title":   updated.Title,
        }, nil

    default:
        return nil, NewValidationError("dispatch", fmt.Sprintf("unknown tool %q", name))
    }
}

// toolErrorResult turns expected tool failures into result payloads the model
// can read back to the user. Internal failures stay errors.
func toolErrorResult(err error) (interface{}, error) {
    toolErr, ok := err.(*ToolError)
    if !ok || toolErr.Type == ErrTypeInternal {
        return nil, err
    }

    kind := "validation_error"
    if toolErr.Type == ErrTypeNotFound {
        kind = "not_found"
    }
    return map[string]interface{}{
        "error":   kind,
        "message": toolErr.Message,
    }, nil
}
