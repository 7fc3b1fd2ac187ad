// File: internal/services/agent/fallback.go

package agent

import (
    "context"
    "fmt"
    "regexp"
    "strconv"
    "strings"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
)

// Fallback is the deterministic substitute for the language model: a keyword
// intent matcher that executes the same real tools. It answers every request
// the model would have, just without the conversational polish.
type Fallback struct {
    tools  *tools.Service
    logger Logger
}

func NewFallback(toolSvc *tools.Service, logger Logger) *Fallback {
    return &Fallback{tools: toolSvc, logger: logger}
}

const helpReply = "Hello! I'm your task assistant. I can add tasks, list them, " +
    "mark them complete, update them, or delete them. Try \"add a task to buy milk\" " +
    "or \"show my tasks\"."

var (
    addTitleRe    = regexp.MustCompile(`(?i)^(please\s+)?(add|create|make)\s+(a\s+)?(new\s+)?(task|todo)?\s*(to|called|named|:)?\s*`)
    rememberRe    = regexp.MustCompile(`(?i)^(remember|i need|i have|i want)\s+to\s+`)
    // Only "task 3" / "todo #3" / "#3" phrasings name a task by number; a
    // bare digit elsewhere in the sentence is part of the title.
    taskNumberRe  = regexp.MustCompile(`(?i)(?:\btask\b|\btodo\b|#)\s*#?(\d+)\b`)
    updateTitleRe = regexp.MustCompile(`(?i)task\s+#?(\d+)\s+(?:to|with)\s+(.+)$`)
)

// Run recognizes the user's intent from keywords and executes the matching
// tool. Intent order matters: "add" phrasings are checked before "list"
// because messages like "add to my task list" contain both vocabularies.
func (f *Fallback) Run(ctx context.Context, userID uint, history []domain.Message, userMessage string) (*Result, error) {
    lower := strings.ToLower(strings.TrimSpace(userMessage))
    if lower == "" {
        return &Result{Reply: helpReply, Fallback: true}, nil
    }

    switch {
    case containsAny(lower, "add ", "create ", "remember to ", "i need to ", "new task"):
        return f.handleAdd(ctx, userID, userMessage)
    case containsAny(lower, "list", "show", "my tasks", "what do i have", "view"):
        return f.handleList(ctx, userID)
    case containsAny(lower, "complete", "finish", "done"):
        return f.handleComplete(ctx, userID, lower)
    case containsAny(lower, "delete", "remove", "get rid of"):
        return f.handleDelete(ctx, userID, lower)
    case containsAny(lower, "update", "change", "rename", "modify", "edit"):
        return f.handleUpdate(ctx, userID, userMessage)
    default:
        return &Result{Reply: helpReply, Fallback: true}, nil
    }
}

func (f *Fallback) handleAdd(ctx context.Context, userID uint, original string) (*Result, error) {
    title := extractTitle(original)
    if title == "" {
        return &Result{
            Reply:    "What should the task be called? For example: \"add a task to buy milk\".",
            Fallback: true,
        }, nil
    }

    created, err := f.tools.AddTask(ctx, userID, title, "")
    if err != nil {
        return f.failureResult(tools.ToolAddTask, map[string]interface{}{"title": title}, err), nil
    }

    return &Result{
        Reply: fmt.Sprintf("Got it! Added '%s' 📝", created.Title),
        ToolCalls: []ToolCall{{
            Tool:      tools.ToolAddTask,
            Arguments: map[string]interface{}{"title": title},
            Result:    map[string]interface{}{"task_id": created.ID, "status": "created", "title": created.Title},
        }},
        Fallback: true,
    }, nil
}

func (f *Fallback) handleList(ctx context.Context, userID uint) (*Result, error) {
    tasksList, err := f.tools.ListTasks(ctx, userID, tools.StatusAll)
    if err != nil {
        return f.failureResult(tools.ToolListTasks, map[string]interface{}{"status": "all"}, err), nil
    }

    var reply string
    if len(tasksList) == 0 {
        reply = "You don't have any tasks yet. Want me to add one?"
    } else {
        var b strings.Builder
        fmt.Fprintf(&b, "You have %d tasks:\n", len(tasksList))
        for _, t := range tasksList {
            marker := "[ ]"
            if t.Completed {
                marker = "[x]"
            }
            fmt.Fprintf(&b, "%s %s (#%d)\n", marker, t.Title, t.ID)
        }
        reply = strings.TrimRight(b.String(), "\n")
    }

    items := make([]map[string]interface{}, 0, len(tasksList))
    for _, t := range tasksList {
        items = append(items, map[string]interface{}{"id": t.ID, "title": t.Title, "completed": t.Completed})
    }

    return &Result{
        Reply: reply,
        ToolCalls: []ToolCall{{
            Tool:      tools.ToolListTasks,
            Arguments: map[string]interface{}{"status": "all"},
            Result:    map[string]interface{}{"tasks": items, "count": len(items)},
        }},
        Fallback: true,
    }, nil
}

func (f *Fallback) handleComplete(ctx context.Context, userID uint, lower string) (*Result, error) {
    taskID, ok := f.resolveTaskID(ctx, userID, lower, false)
    if !ok {
        return &Result{
            Reply:    "Which task did you finish? Tell me its number, like \"complete task 3\".",
            Fallback: true,
        }, nil
    }

    completed, err := f.tools.CompleteTask(ctx, userID, taskID)
    if err != nil {
        return f.failureResult(tools.ToolCompleteTask, map[string]interface{}{"task_id": taskID}, err), nil
    }

    return &Result{
        Reply: fmt.Sprintf("Awesome! ✅ '%s' is complete!", completed.Title),
        ToolCalls: []ToolCall{{
            Tool:      tools.ToolCompleteTask,
            Arguments: map[string]interface{}{"task_id": taskID},
            Result:    map[string]interface{}{"task_id": completed.ID, "status": "completed", "title": completed.Title},
        }},
        Fallback: true,
    }, nil
}

func (f *Fallback) handleDelete(ctx context.Context, userID uint, lower string) (*Result, error) {
    taskID, ok := f.resolveTaskID(ctx, userID, lower, true)
    if !ok {
        return &Result{
            Reply:    "Which task should I delete? Tell me its number, like \"delete task 3\".",
            Fallback: true,
        }, nil
    }

    deleted, err := f.tools.DeleteTask(ctx, userID, taskID)
    if err != nil {
        return f.failureResult(tools.ToolDeleteTask, map[string]interface{}{"task_id": taskID}, err), nil
    }

    return &Result{
        Reply: fmt.Sprintf("Removed! '%s' deleted", deleted.Title),
        ToolCalls: []ToolCall{{
            Tool:      tools.ToolDeleteTask,
            Arguments: map[string]interface{}{"task_id": taskID},
            Result:    map[string]interface{}{"task_id": deleted.ID, "status": "deleted", "title": deleted.Title},
        }},
        Fallback: true,
    }, nil
}

func (f *Fallback) handleUpdate(ctx context.Context, userID uint, original string) (*Result, error) {
    match := updateTitleRe.FindStringSubmatch(original)
    if match == nil {
        return &Result{
            Reply:    "To update a task, tell me its number and the new title, like \"rename task 3 to call the dentist\".",
            Fallback: true,
        }, nil
    }

    id, _ := strconv.ParseUint(match[1], 10, 32)
    taskID := uint(id)
    newTitle := strings.TrimSpace(match[2])

    updated, err := f.tools.UpdateTask(ctx, userID, taskID, &newTitle, nil)
    if err != nil {
        return f.failureResult(tools.ToolUpdateTask, map[string]interface{}{"task_id": taskID, "title": newTitle}, err), nil
    }

    return &Result{
        Reply: fmt.Sprintf("Perfect! Updated to '%s'", updated.Title),
        ToolCalls: []ToolCall{{
            Tool:      tools.ToolUpdateTask,
            Arguments: map[string]interface{}{"task_id": taskID, "title": newTitle},
            Result:    map[string]interface{}{"task_id": updated.ID, "status": "updated", "title": updated.Title},
        }},
        Fallback: true,
    }, nil
}

// resolveTaskID finds the target task: an explicit number wins, otherwise the
// message is matched against task titles (pending tasks only, unless
// includeCompleted is set).
func (f *Fallback) resolveTaskID(ctx context.Context, userID uint, lower string, includeCompleted bool) (uint, bool) {
    if match := taskNumberRe.FindStringSubmatch(lower); match != nil {
        id, err := strconv.ParseUint(match[1], 10, 32)
        if err == nil && id > 0 {
            return uint(id), true
        }
    }

    status := tools.StatusPending
    if includeCompleted {
        status = tools.StatusAll
    }
    tasksList, err := f.tools.ListTasks(ctx, userID, status)
    if err != nil {
        return 0, false
    }
    for _, t := range tasksList {
        if strings.Contains(lower, strings.ToLower(t.Title)) {
            return t.ID, true
        }
    }
    return 0, false
}

// failureResult narrates an expected tool failure instead of surfacing a raw
// error, recording the attempted call with its error payload.
func (f *Fallback) failureResult(tool string, arguments map[string]interface{}, err error) *Result {
    reply := "Sorry, I couldn't do that. Could you try rephrasing?"
    resultPayload := map[string]interface{}{"error": "internal_error", "message": "operation failed"}

    if toolErr, ok := err.(*tools.ToolError); ok {
        switch toolErr.Type {
        case tools.ErrTypeNotFound:
            reply = "Hmm, I couldn't find that task. Try \"show my tasks\" to see the current numbers."
            resultPayload = map[string]interface{}{"error": "not_found", "message": toolErr.Message}
        case tools.ErrTypeValidation:
            reply = fmt.Sprintf("That didn't work: %s.", toolErr.Message)
            resultPayload = map[string]interface{}{"error": "validation_error", "message": toolErr.Message}
        default:
            f.logger.Error("fallback tool execution failed", "tool", tool, "error", err.Error())
        }
    } else {
        f.logger.Error("fallback tool execution failed", "tool", tool, "error", err.Error())
    }

    return &Result{
        Reply:     reply,
        ToolCalls: []ToolCall{{Tool: tool, Arguments: arguments, Result: resultPayload}},
        Fallback:  true,
    }
}

// extractTitle strips the command phrasing from an add request, leaving the
// task title itself.
func extractTitle(message string) string {
    title := strings.TrimSpace(message)
    title = rememberRe.ReplaceAllString(title, "")
    title = addTitleRe.ReplaceAllString(title, "")
    title = strings.Trim(title, " .!?\"'")
    return title
}

func containsAny(s string, subs ...string) bool {
    for _, sub := range subs {
        if strings.Contains(s, sub) {
            return true
        }
    }
    return false
}
