// File: internal/services/ai/interface.go
package ai

import (
    "context"

    openai "github.com/sashabaranov/go-openai"
)

// CompletionProvider produces one assistant turn for a conversation, with
// the given tools offered to the model as callable functions. The returned
// message may carry tool-call requests instead of (or alongside) content.
type CompletionProvider interface {
    CreateToolCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}
