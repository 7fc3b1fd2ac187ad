// File: internal/services/agent/runner.go

package agent

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/services/ai"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
)

// ToolCall is one recorded tool invocation: what was asked, with which
// arguments, and what came back.
type ToolCall struct {
    Tool      string                 `json:"tool"`
    Arguments map[string]interface{} `json:"arguments"`
    Result    interface{}            `json:"result"`
}

// Result is the orchestrator's answer for one user turn.
type Result struct {
    Reply     string
    ToolCalls []ToolCall
    Fallback  bool
}

const apologyReply = "I apologize, but I'm having trouble completing that request. Could you try rephrasing?"

// Runner drives the reason/act loop: present the tools to the model, execute
// whatever it requests, feed results back, and stop when it answers in plain
// language. If the model is unreachable the rule-based fallback answers
// instead; a chat request is never left unanswered because of the upstream.
type Runner struct {
    provider ai.CompletionProvider
    tools    *tools.Service
    config   *Config
    retry    *ai.RetryConfig
    fallback *Fallback
    logger   Logger
}

// NewRunner wires the orchestrator. A nil provider is allowed: every request
// then goes straight to the fallback, which keeps deployments without model
// credentials functional.
func NewRunner(provider ai.CompletionProvider, toolSvc *tools.Service, config *Config, logger Logger) (*Runner, error) {
    if toolSvc == nil {
        return nil, errors.New("tool service is required")
    }
    if logger == nil {
        return nil, errors.New("logger is required")
    }
    if config == nil {
        config = DefaultConfig()
    }
    if err := config.Validate(); err != nil {
        return nil, err
    }

    return &Runner{
        provider: provider,
        tools:    toolSvc,
        config:   config,
        retry:    ai.DefaultRetryConfig(),
        fallback: NewFallback(toolSvc, logger),
        logger:   logger,
    }, nil
}

// Run produces one assistant reply for the authenticated owner. The history
// is replayed verbatim; userMessage is the newly arrived turn.
func (r *Runner) Run(ctx context.Context, userID uint, history []domain.Message, userMessage string) (*Result, error) {
    if r.provider == nil {
        return r.fallback.Run(ctx, userID, history, userMessage)
    }

    messages := buildMessages(history, userMessage)
    definitions := tools.Definitions()
    var calls []ToolCall

    for iteration := 0; iteration < r.config.MaxIterations; iteration++ {
        reply, err := r.complete(ctx, messages, definitions)
        if err != nil {
            r.logger.Warn("model unavailable, using rule-based fallback",
                "user_id", userID, "iteration", iteration, "error", err.Error())
            return r.runFallback(ctx, userID, history, userMessage, calls)
        }

        if len(reply.ToolCalls) == 0 {
            content := reply.Content
            if content == "" {
                content = apologyReply
            }
            return &Result{Reply: content, ToolCalls: calls}, nil
        }

        messages = append(messages, reply)
        for _, tc := range reply.ToolCalls {
            record, toolMsg := r.executeToolCall(ctx, userID, tc)
            calls = append(calls, record)
            messages = append(messages, toolMsg)
        }
    }

    r.logger.Warn("agent loop exhausted max iterations", "user_id", userID, "tool_calls", len(calls))
    return &Result{Reply: apologyReply, ToolCalls: calls}, nil
}

// complete performs one model call with the configured single retry.
func (r *Runner) complete(ctx context.Context, messages []openai.ChatCompletionMessage, definitions []openai.Tool) (openai.ChatCompletionMessage, error) {
    var reply openai.ChatCompletionMessage
    err := ai.RetryWithBackoff(ctx, r.retry, func(ctx context.Context) error {
        var callErr error
        reply, callErr = r.provider.CreateToolCompletion(ctx, messages, definitions)
        return callErr
    })
    return reply, err
}

// executeToolCall dispatches one model-requested invocation. The owner id is
// always the authenticated caller's: any owner identity the model invented
// inside the arguments is discarded before dispatch and never trusted.
func (r *Runner) executeToolCall(ctx context.Context, userID uint, tc openai.ToolCall) (ToolCall, openai.ChatCompletionMessage) {
    name := tc.Function.Name
    rawArgs := json.RawMessage(tc.Function.Arguments)

    arguments := map[string]interface{}{}
    if err := json.Unmarshal(rawArgs, &arguments); err != nil {
        arguments = map[string]interface{}{"_raw": tc.Function.Arguments}
    }
    delete(arguments, "user_id")

    result, err := r.tools.Dispatch(ctx, userID, name, rawArgs)
    if err != nil {
        var toolErr *tools.ToolError
        if errors.As(err, &toolErr) && toolErr.Type == tools.ErrTypeValidation {
            result = map[string]interface{}{
                "error":   "validation_error",
                "message": toolErr.Message,
            }
        } else {
            r.logger.Error("tool execution failed", "tool", name, "user_id", userID, "error", err.Error())
            result = map[string]interface{}{
                "error":   "internal_error",
                "message": fmt.Sprintf("the %s operation failed, please try again", name),
            }
        }
    }

    record := ToolCall{Tool: name, Arguments: arguments, Result: result}

    content, marshalErr := json.Marshal(result)
    if marshalErr != nil {
        content = []byte(`{"error":"internal_error","message":"unencodable tool result"}`)
    }
    toolMsg := openai.ChatCompletionMessage{
        Role:       openai.ChatMessageRoleTool,
        Content:    string(content),
        Name:       name,
        ToolCallID: tc.ID,
    }
    return record, toolMsg
}

// runFallback answers via the rule-based runner, keeping any tool calls the
// model already managed to execute before it became unreachable. If a
// mutation already ran, the fallback must not re-interpret the message: the
// intent matcher would execute the same mutation a second time. In that case
// the reply just summarizes what was done.
func (r *Runner) runFallback(ctx context.Context, userID uint, history []domain.Message, userMessage string, prior []ToolCall) (*Result, error) {
    if hasMutation(prior) {
        return &Result{
            Reply:     summarizeExecuted(prior) + r.config.FallbackNotice,
            ToolCalls: prior,
            Fallback:  true,
        }, nil
    }

    result, err := r.fallback.Run(ctx, userID, history, userMessage)
    if err != nil {
        return nil, err
    }
    result.ToolCalls = append(prior, result.ToolCalls...)
    result.Reply += r.config.FallbackNotice
    result.Fallback = true
    return result, nil
}

// hasMutation reports whether any recorded call could have changed state.
// Reads are safe to redo; everything else is not.
func hasMutation(calls []ToolCall) bool {
    for _, c := range calls {
        if c.Tool != tools.ToolListTasks {
            return true
        }
    }
    return false
}

// summarizeExecuted narrates the successful calls from an interrupted loop,
// e.g. "created 'buy milk'". Calls whose result carries no status/title pair
// (failures, listings) are skipped.
func summarizeExecuted(calls []ToolCall) string {
    var done []string
    for _, c := range calls {
        payload, ok := c.Result.(map[string]interface{})
        if !ok {
            continue
        }
        status, _ := payload["status"].(string)
        title, _ := payload["title"].(string)
        if status == "" || title == "" {
            continue
        }
        done = append(done, fmt.Sprintf("%s '%s'", status, title))
    }
    if len(done) == 0 {
        return apologyReply
    }
    return fmt.Sprintf("I got partway through that: %s.", strings.Join(done, ", "))
}

// buildMessages assembles the model conversation: system prompt, replayed
// history, then the new user turn.
func buildMessages(history []domain.Message, userMessage string) []openai.ChatCompletionMessage {
    messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
    messages = append(messages, openai.ChatCompletionMessage{
        Role:    openai.ChatMessageRoleSystem,
        Content: systemPrompt,
    })
    for _, m := range history {
        role := openai.ChatMessageRoleUser
        if m.Role == domain.RoleAssistant {
            role = openai.ChatMessageRoleAssistant
        }
        messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
    }
    messages = append(messages, openai.ChatCompletionMessage{
        Role:    openai.ChatMessageRoleUser,
        Content: userMessage,
    })
    return messages
}
