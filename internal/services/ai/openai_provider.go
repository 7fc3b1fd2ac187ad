// File: internal/services/ai/openai_provider.go
package ai

import (
    "context"

    openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
    config *Config
    client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
    if err := config.Validate(); err != nil {
        return nil, NewConfigError(err.Error())
    }

    clientConfig := openai.DefaultConfig(config.APIKey)
    if config.BaseURL != "" {
        clientConfig.BaseURL = config.BaseURL
    }

    return &OpenAIProvider{
        config: config,
        client: openai.NewClientWithConfig(clientConfig),
    }, nil
}

// CreateToolCompletion submits the conversation to the model with the tool
// set attached and returns the assistant's next turn.
func (p *OpenAIProvider) CreateToolCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
    ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
    defer cancel()

    req := openai.ChatCompletionRequest{
        Model:       p.config.Model,
        Messages:    messages,
        Temperature: p.config.Temperature,
    }
    if len(tools) > 0 {
        req.Tools = tools
    }

    resp, err := p.client.CreateChatCompletion(ctx, req)
    if err != nil {
        return openai.ChatCompletionMessage{}, NewProviderError("completion", "failed to create completion", err)
    }

    if len(resp.Choices) == 0 {
        return openai.ChatCompletionMessage{}, &AIError{
            Type:      ErrTypeProvider,
            Operation: "completion",
            Message:   "empty completion response",
        }
    }

    return resp.Choices[0].Message, nil
}
