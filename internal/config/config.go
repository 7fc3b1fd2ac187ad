// File: internal/config/config.go
package config

import (
    "log"
    "os"
    "strconv"
    "strings"

    "github.com/joho/godotenv"
)

type Config struct {
    ServerPort   string
    JWTSecretKey string
    DatabasePath string

    // AI provider settings. An empty API key disables the model entirely;
    // the assistant then runs on rule-based matching alone.
    AIAPIKey  string
    AIBaseURL string
    AIModel   string

    AgentMaxIterations int
    ChatHistoryLimit   int
    Environment        string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
    env := os.Getenv("ENV")
    if strings.ToLower(env) != "production" {
        if err := godotenv.Load(); err != nil {
            log.Println("No .env file found; continuing with environment variables")
        }
    }

    cfg := &Config{
        ServerPort:         getEnv("SERVER_PORT", "8080"),
        JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
        DatabasePath:       getEnv("DATABASE_PATH", "todo_assistant.db"),
        AIAPIKey:           getEnv("AI_API_KEY", ""),
        AIBaseURL:          getEnv("AI_BASE_URL", ""),
        AIModel:            getEnv("AI_MODEL", "gpt-4o-mini"),
        AgentMaxIterations: getEnvAsInt("AGENT_MAX_ITERATIONS", 5),
        ChatHistoryLimit:   getEnvAsInt("CHAT_HISTORY_LIMIT", 50),
        Environment:        env,
    }

    // Validation for production environments
    if strings.ToLower(env) == "production" {
        missing := []string{}
        if cfg.JWTSecretKey == "" {
            missing = append(missing, "JWT_SECRET_KEY")
        }
        if len(missing) > 0 {
            log.Fatalf("Missing required production environment variables: %v", missing)
        }
        if cfg.AIAPIKey == "" {
            log.Println("Warning: AI_API_KEY not set; assistant will run in rule-based mode")
        }
    }

    return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
    if value, exists := os.LookupEnv(key); exists {
        return value
    }
    return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
    strValue := getEnv(key, "")
    if strValue == "" {
        return defaultValue
    }
    intValue, err := strconv.Atoi(strValue)
    if err != nil {
        log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
        return defaultValue
    }
    return intValue
}
