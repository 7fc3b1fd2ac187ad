// File: internal/services/chat/config.go
package chat

import (
    "fmt"
    "time"
)

type Config struct {
    // Conversation Configuration
    HistoryLimit  int // Number of recent messages replayed to the assistant
    MaxMessageLen int // Maximum user message length in characters

    // Performance Configuration
    AgentTimeout time.Duration // Upper bound for one full assistant turn

    // Listing Configuration
    ConversationPageSize int // Default page size for conversation listings
}

func (c *Config) Validate() error {
    if c.HistoryLimit <= 0 {
        return fmt.Errorf("history_limit must be positive")
    }
    if c.HistoryLimit > 200 {
        return fmt.Errorf("history_limit cannot exceed 200")
    }
    if c.MaxMessageLen <= 0 {
        return fmt.Errorf("max_message_len must be positive")
    }
    if c.AgentTimeout <= 0 {
        return fmt.Errorf("agent_timeout must be positive")
    }
    if c.ConversationPageSize <= 0 {
        return fmt.Errorf("conversation_page_size must be positive")
    }
    return nil
}

func DefaultConfig() *Config {
    return &Config{
        HistoryLimit:         50,
        MaxMessageLen:        5000,
        AgentTimeout:         90 * time.Second,
        ConversationPageSize: 20,
    }
}
