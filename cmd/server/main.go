// File: cmd/server/main.go
package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/glebarez/sqlite"
    "github.com/gorilla/mux"
    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/config"
    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/handlers"
    "github.com/iyunix/go-todo-assistant/internal/middleware"
    "github.com/iyunix/go-todo-assistant/internal/ratelimit"
    "github.com/iyunix/go-todo-assistant/internal/repository/conversation"
    "github.com/iyunix/go-todo-assistant/internal/repository/message"
    "github.com/iyunix/go-todo-assistant/internal/repository/task"
    "github.com/iyunix/go-todo-assistant/internal/repository/user"
    "github.com/iyunix/go-todo-assistant/internal/services"
    "github.com/iyunix/go-todo-assistant/internal/services/agent"
    "github.com/iyunix/go-todo-assistant/internal/services/ai"
    chatconfig "github.com/iyunix/go-todo-assistant/internal/services/chat"
    "github.com/iyunix/go-todo-assistant/internal/services/tools"
    "github.com/iyunix/go-todo-assistant/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
        w.Header().Set("Access-Control-Max-Age", "86400")

        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }

        next.ServeHTTP(w, r)
    })
}

func main() {
    cfg := config.Load()

    db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
    if err != nil {
        log.Fatalf("DB Error: %v", err)
    }

    if err := db.AutoMigrate(
        &domain.User{}, &domain.Task{}, &domain.Conversation{}, &domain.Message{},
    ); err != nil {
        log.Fatalf("DB Migration Error: %v", err)
    }

    // --- Repositories ---
    userRepo := user.NewGormUserRepository(db)
    taskRepo := task.NewTaskRepository(db)
    conversationRepo := conversation.NewConversationRepository(db)
    messageRepo := message.NewMessageRepository(db)

    // --- Services ---
    toolService, err := tools.NewService(taskRepo, services.NewLogger("tools"))
    if err != nil {
        log.Fatalf("FATAL: Failed to initialize tool service: %v", err)
    }

    // A missing API key means no model provider; the agent falls back to
    // keyword matching for every request.
    var provider ai.CompletionProvider
    if cfg.AIAPIKey != "" {
        aiConfig := ai.DefaultConfig()
        aiConfig.APIKey = cfg.AIAPIKey
        aiConfig.BaseURL = cfg.AIBaseURL
        aiConfig.Model = cfg.AIModel
        openaiProvider, err := ai.NewOpenAIProvider(aiConfig)
        if err != nil {
            log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
        }
        provider = openaiProvider
    } else {
        log.Println("AI_API_KEY not set; assistant runs in rule-based mode")
    }

    agentConfig := agent.DefaultConfig()
    if cfg.AgentMaxIterations > 0 {
        agentConfig.MaxIterations = cfg.AgentMaxIterations
    }
    runner, err := agent.NewRunner(provider, toolService, agentConfig, services.NewLogger("agent"))
    if err != nil {
        log.Fatalf("FATAL: Failed to initialize agent runner: %v", err)
    }

    chatCfg := chatconfig.DefaultConfig()
    if cfg.ChatHistoryLimit > 0 {
        chatCfg.HistoryLimit = cfg.ChatHistoryLimit
    }
    chatService, err := services.NewChatService(
        conversationRepo, messageRepo, runner, chatCfg, services.NewLogger("chat"),
    )
    if err != nil {
        log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
    }

    userService, err := user_services.NewUserService(userRepo, cfg.JWTSecretKey, services.NewLogger("user"))
    if err != nil {
        log.Fatalf("FATAL: Failed to initialize user service: %v", err)
    }

    // --- Handlers ---
    authHandler := handlers.NewAuthHandler(userService)
    taskHandler := handlers.NewTaskHandler(toolService)
    chatHandler := handlers.NewChatHandler(chatService)
    healthHandler := handlers.NewHealthHandler(db)

    // --- Rate Limiters ---
    authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
    defer authLimiter.Close()
    chatLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.ChatConfig())
    defer chatLimiter.Close()

    // --- Router Setup ---
    r := mux.NewRouter()
    authMiddleware := middleware.NewJWTMiddleware(userService)

    r.Use(corsMiddleware)
    r.Use(middleware.RecoverPanic)
    r.Use(middleware.RequestIDMiddleware)
    r.Use(middleware.LoggingMiddleware)

    // --- Public Routes ---
    r.HandleFunc("/health", healthHandler.Health).Methods("GET")

    authRoutes := r.PathPrefix("/api/auth").Subrouter()
    authRoutes.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
    authRoutes.Use(middleware.AuthSuccessMiddleware(authLimiter, "auth"))
    authRoutes.HandleFunc("/signup", authHandler.Signup).Methods("POST")
    authRoutes.HandleFunc("/signin", authHandler.Signin).Methods("POST")

    // --- Protected Routes ---
    api := r.PathPrefix("/api/{user_id:[0-9]+}").Subrouter()
    api.Use(authMiddleware)

    api.HandleFunc("/me", authHandler.Me).Methods("GET")

    api.HandleFunc("/tasks", taskHandler.ListTasks).Methods("GET")
    api.HandleFunc("/tasks", taskHandler.CreateTask).Methods("POST")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.GetTask).Methods("GET")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.UpdateTask).Methods("PUT", "PATCH")
    api.HandleFunc("/tasks/{id:[0-9]+}", taskHandler.DeleteTask).Methods("DELETE")
    api.HandleFunc("/tasks/{id:[0-9]+}/complete", taskHandler.CompleteTask).Methods("PATCH")

    chatRoutes := api.PathPrefix("").Subrouter()
    chatRoutes.Use(middleware.RateLimitMiddleware(chatLimiter, "chat"))
    chatRoutes.HandleFunc("/chat", chatHandler.HandleChatMessage).Methods("POST")

    api.HandleFunc("/conversations", chatHandler.GetUserConversations).Methods("GET")
    api.HandleFunc("/conversations/{id:[0-9]+}/messages", chatHandler.GetConversationMessages).Methods("GET")
    api.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")

    // --- Server Configuration ---
    port := ":8080"
    if cfg.ServerPort != "" {
        port = ":" + cfg.ServerPort
    }
    srv := &http.Server{
        Addr:         port,
        Handler:      r,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 120 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    log.SetFlags(log.LstdFlags | log.Lshortfile)
    log.Printf("Todo Assistant API starting on port %s", port)
    if provider != nil {
        log.Printf("Assistant mode: model-backed (%s)", cfg.AIModel)
    } else {
        log.Printf("Assistant mode: rule-based fallback")
    }

    // --- Start Server in Goroutine ---
    go func() {
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Server startup failed: %v", err)
        }
    }()

    // --- Graceful Shutdown ---
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop

    log.Println("Shutting down server gracefully...")
    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatalf("Server shutdown failed: %v", err)
    }
    log.Println("Server stopped gracefully")
}
