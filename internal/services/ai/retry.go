// File: internal/services/ai/retry.go
package ai

import (
    "context"
    "errors"
    "time"
)

// RetryConfig defines simple retry behavior
type RetryConfig struct {
    MaxAttempts int
    Delay       time.Duration
}

// DefaultRetryConfig allows one retry after the initial attempt. The model
// call is the request cycle's dominant latency source, so anything more
// aggressive just delays the fallback path.
func DefaultRetryConfig() *RetryConfig {
    return &RetryConfig{
        MaxAttempts: 2,
        Delay:       500 * time.Millisecond,
    }
}

// RetryWithBackoff executes a function with simple retry logic
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
    var lastErr error

    for attempt := 0; attempt < config.MaxAttempts; attempt++ {
        err := fn(ctx)
        if err == nil {
            return nil
        }

        lastErr = err

        // Don't retry non-retryable errors
        var aiErr *AIError
        if errors.As(err, &aiErr) {
            if aiErr.Type == ErrTypeConfig || aiErr.Type == ErrTypeValidation {
                return err
            }
        }

        // Don't wait after last attempt
        if attempt < config.MaxAttempts-1 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(config.Delay):
            }
        }
    }

    return lastErr
}
