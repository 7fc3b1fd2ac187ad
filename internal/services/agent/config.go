// File: internal/services/agent/config.go
package agent

import "fmt"

type Config struct {
    // MaxIterations bounds the reason/act loop: each iteration is one model
    // call, optionally followed by tool executions.
    MaxIterations int

    // FallbackNotice is appended to replies produced by the rule-based
    // fallback so the user knows the assistant ran in degraded mode.
    FallbackNotice string
}

func (c *Config) Validate() error {
    if c.MaxIterations < 1 {
        return fmt.Errorf("max_iterations must be at least 1")
    }
    if c.MaxIterations > 10 {
        return fmt.Errorf("max_iterations cannot exceed 10")
    }
    return nil
}

func DefaultConfig() *Config {
    return &Config{
        MaxIterations:  5,
        FallbackNotice: "\n\n_Note: the AI assistant is temporarily unavailable, so I handled this with basic matching._",
    }
}

// Logger interface for the agent service
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}
