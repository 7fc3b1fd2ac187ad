// File: internal/services/agent/runner_test.go
package agent_test

import (
    "context"
    "testing"

    openai "github.com/sashabaranov/go-openai"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/services"
    "github.com/iyunix/go-todo-assistant/internal/services/agent"
    "github.com/iyunix/go-todo-assistant/internal/services/ai"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
)

// scriptedProvider replays a fixed sequence of model turns.
type scriptedProvider struct {
    turns []func() (openai.ChatCompletionMessage, error)
    calls int
}

func (p *scriptedProvider) CreateToolCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, defs []openai.Tool) (openai.ChatCompletionMessage, error) {
    if p.calls >= len(p.turns) {
        return openai.ChatCompletionMessage{}, ai.NewConfigError("script exhausted")
    }
    turn := p.turns[p.calls]
    p.calls++
    return turn()
}

func textTurn(content string) func() (openai.ChatCompletionMessage, error) {
    return func() (openai.ChatCompletionMessage, error) {
        return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}, nil
    }
}

func toolTurn(id, name, arguments string) func() (openai.ChatCompletionMessage, error) {
    return func() (openai.ChatCompletionMessage, error) {
        return openai.ChatCompletionMessage{
            Role: openai.ChatMessageRoleAssistant,
            ToolCalls: []openai.ToolCall{{
                ID:   id,
                Type: openai.ToolTypeFunction,
                Function: openai.FunctionCall{Name: name, Arguments: arguments},
            }},
        }, nil
    }
}

func errorTurn() func() (openai.ChatCompletionMessage, error) {
    return func() (openai.ChatCompletionMessage, error) {
        // Config errors are non-retryable, so the runner falls back at once.
        return openai.ChatCompletionMessage{}, ai.NewConfigError("provider down")
    }
}

func newRunner(t *testing.T, provider ai.CompletionProvider) (*agent.Runner, *tools.Service) {
    t.Helper()
    toolSvc := newToolService(t)
    runner, err := agent.NewRunner(provider, toolSvc, nil, &services.NoOpLogger{})
    require.NoError(t, err)
    return runner, toolSvc
}

func TestRunnerPlainReply(t *testing.T) {
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        textTurn("You have no tasks yet."),
    }}
    runner, _ := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "anything pending?")
    require.NoError(t, err)
    assert.Equal(t, "You have no tasks yet.", result.Reply)
    assert.Empty(t, result.ToolCalls)
    assert.False(t, result.Fallback)
}

func TestRunnerExecutesToolCalls(t *testing.T) {
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        toolTurn("call-1", tools.ToolAddTask, `{"title":"buy milk","user_id":999}`),
        textTurn("Got it! Added 'buy milk'"),
    }}
    runner, toolSvc := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "add a task to buy milk")
    require.NoError(t, err)
    assert.Equal(t, "Got it! Added 'buy milk'", result.Reply)
    require.Len(t, result.ToolCalls, 1)
    assert.Equal(t, tools.ToolAddTask, result.ToolCalls[0].Tool)

    // The model-supplied owner id is discarded from the recorded arguments,
    // and the task lands under the authenticated owner.
    _, hasUserID := result.ToolCalls[0].Arguments["user_id"]
    assert.False(t, hasUserID)

    listed, err := toolSvc.ListTasks(context.Background(), 1, tools.StatusAll)
    require.NoError(t, err)
    require.Len(t, listed, 1)
    assert.Equal(t, "buy milk", listed[0].Title)

    other, err := toolSvc.ListTasks(context.Background(), 999, tools.StatusAll)
    require.NoError(t, err)
    assert.Empty(t, other)
}

func TestRunnerFeedsToolResultsBack(t *testing.T) {
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        toolTurn("call-1", tools.ToolDeleteTask, `{"task_id":99999}`),
        textTurn("I couldn't find that task."),
    }}
    runner, _ := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "delete task 99999")
    require.NoError(t, err)
    assert.Equal(t, "I couldn't find that task.", result.Reply)
    require.Len(t, result.ToolCalls, 1)

    payload := result.ToolCalls[0].Result.(map[string]interface{})
    assert.Equal(t, "not_found", payload["error"])
}

func TestRunnerFallsBackWhenProviderFails(t *testing.T) {
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        errorTurn(),
    }}
    runner, toolSvc := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "add a task to buy milk")
    require.NoError(t, err)
    assert.True(t, result.Fallback)
    assert.Contains(t, result.Reply, "buy milk")
    assert.Contains(t, result.Reply, "temporarily unavailable")

    listed, err := toolSvc.ListTasks(context.Background(), 1, tools.StatusAll)
    require.NoError(t, err)
    assert.Len(t, listed, 1)
}

func TestRunnerDoesNotRepeatMutationsOnMidLoopFailure(t *testing.T) {
    // The model adds the task, then dies before answering. The fallback must
    // not re-run the add intent; one message means one task.
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        toolTurn("call-1", tools.ToolAddTask, `{"title":"buy milk"}`),
        errorTurn(),
    }}
    runner, toolSvc := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "add a task to buy milk")
    require.NoError(t, err)
    assert.True(t, result.Fallback)
    assert.Contains(t, result.Reply, "created 'buy milk'")
    assert.Contains(t, result.Reply, "temporarily unavailable")
    require.Len(t, result.ToolCalls, 1)

    listed, err := toolSvc.ListTasks(context.Background(), 1, tools.StatusAll)
    require.NoError(t, err)
    require.Len(t, listed, 1)
    assert.Equal(t, "buy milk", listed[0].Title)
}

func TestRunnerLabelsMalformedCallsAsValidationErrors(t *testing.T) {
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        toolTurn("call-1", "reboot_server", `{}`),
        toolTurn("call-2", tools.ToolAddTask, `{"title":`),
        textTurn("I can't do that."),
    }}
    runner, _ := newRunner(t, provider)

    result, err := runner.Run(context.Background(), 1, nil, "reboot the server")
    require.NoError(t, err)
    require.Len(t, result.ToolCalls, 2)

    unknown := result.ToolCalls[0].Result.(map[string]interface{})
    assert.Equal(t, "validation_error", unknown["error"])
    malformed := result.ToolCalls[1].Result.(map[string]interface{})
    assert.Equal(t, "validation_error", malformed["error"])
}

func TestRunnerNilProviderUsesFallback(t *testing.T) {
    runner, _ := newRunner(t, nil)

    result, err := runner.Run(context.Background(), 1, nil, "show my tasks")
    require.NoError(t, err)
    assert.True(t, result.Fallback)
}

func TestRunnerStopsAtMaxIterations(t *testing.T) {
    // The model keeps asking for tools and never answers in text.
    turns := make([]func() (openai.ChatCompletionMessage, error), 0, 6)
    for i := 0; i < 6; i++ {
        turns = append(turns, toolTurn("loop", tools.ToolListTasks, `{}`))
    }
    provider := &scriptedProvider{turns: turns}

    toolSvc := newToolService(t)
    config := agent.DefaultConfig()
    config.MaxIterations = 3
    runner, err := agent.NewRunner(provider, toolSvc, config, &services.NoOpLogger{})
    require.NoError(t, err)

    result, err := runner.Run(context.Background(), 1, nil, "list forever")
    require.NoError(t, err)
    assert.Equal(t, 3, provider.calls)
    assert.Len(t, result.ToolCalls, 3)
    assert.NotEmpty(t, result.Reply)
}

func TestRunnerReplaysHistory(t *testing.T) {
    var seen []openai.ChatCompletionMessage
    provider := &scriptedProvider{turns: []func() (openai.ChatCompletionMessage, error){
        textTurn("ok"),
    }}
    capture := providerFunc(func(ctx context.Context, messages []openai.ChatCompletionMessage, defs []openai.Tool) (openai.ChatCompletionMessage, error) {
        seen = messages
        return provider.CreateToolCompletion(ctx, messages, defs)
    })
    runner, _ := newRunner(t, capture)

    history := []domain.Message{
        {Role: domain.RoleUser, Content: "add a task to buy milk"},
        {Role: domain.RoleAssistant, Content: "Got it! Added 'buy milk'"},
    }
    _, err := runner.Run(context.Background(), 1, history, "what's on my list?")
    require.NoError(t, err)

    // System prompt, two history turns, then the new user message.
    require.Len(t, seen, 4)
    assert.Equal(t, openai.ChatMessageRoleSystem, seen[0].Role)
    assert.Equal(t, "add a task to buy milk", seen[1].Content)
    assert.Equal(t, openai.ChatMessageRoleAssistant, seen[2].Role)
    assert.Equal(t, "what's on my list?", seen[3].Content)
}

type providerFunc func(ctx context.Context, messages []openai.ChatCompletionMessage, defs []openai.Tool) (openai.ChatCompletionMessage, error)

func (f providerFunc) CreateToolCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, defs []openai.Tool) (openai.ChatCompletionMessage, error) {
    return f(ctx, messages, defs)
}
