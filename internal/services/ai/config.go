// File: internal/services/ai/config.go
package ai

import (
    "fmt"
    "time"
)

type Config struct {
    // LLM Configuration
    APIKey  string
    BaseURL string
    Model   string

    // Performance Configuration
    Timeout    time.Duration
    MaxRetries int
    RetryDelay time.Duration

    // Model Parameters
    Temperature float32
}

func (c *Config) Validate() error {
    if c.APIKey == "" {
        return fmt.Errorf("AI_API_KEY is required")
    }
    if c.Model == "" {
        return fmt.Errorf("AI_MODEL is required")
    }
    if c.Timeout <= 0 {
        return fmt.Errorf("timeout must be positive")
    }
    if c.MaxRetries < 1 {
        return fmt.Errorf("max retries must be at least 1")
    }
    return nil
}

// DefaultConfig returns the tool-calling defaults. MaxRetries is 2 on
// purpose: one attempt plus one retry on transient failure, after which the
// caller falls back to the rule-based runner.
func DefaultConfig() *Config {
    return &Config{
        Model:       "gpt-4o-mini",
        Timeout:     60 * time.Second,
        MaxRetries:  2,
        RetryDelay:  2 * time.Second,
        Temperature: 0.2,
    }
}
