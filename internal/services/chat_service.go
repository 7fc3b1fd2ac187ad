// File: internal/services/chat_service.go
package services

import (
    "context"
    "errors"
    "strings"
    "unicode/utf8"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/repository/conversation"
    "github.com/iyunix/go-todo-assistant/internal/repository/message"
    "github.com/iyunix/go-todo-assistant/internal/services/agent"
    chatservice "github.com/iyunix/go-todo-assistant/internal/services/chat"
)

// AgentRunner produces one assistant reply for a user turn. Satisfied by
// agent.Runner; narrowed to an interface so tests can script replies.
type AgentRunner interface {
    Run(ctx context.Context, userID uint, history []domain.Message, userMessage string) (*agent.Result, error)
}

// ChatResult is the outcome of one conversational turn, ready for the
// handler layer to serialize.
type ChatResult struct {
    ConversationID uint             `json:"conversation_id"`
    Reply          string           `json:"response"`
    ReplyHTML      string           `json:"response_html,omitempty"`
    ToolCalls      []agent.ToolCall `json:"tool_calls"`
    Fallback       bool             `json:"fallback,omitempty"`
}

// ChatService owns the request cycle of the assistant: resolve the
// conversation, replay its history, record the user's turn, run the agent,
// and record the reply. The service itself holds no per-conversation state;
// everything lives in the repositories.
type ChatService struct {
    config           *chatservice.Config
    conversationRepo conversation.ConversationRepository
    messageRepo      message.MessageRepository
    runner           AgentRunner
    logger           Logger
}

func NewChatService(
    conversationRepo conversation.ConversationRepository,
    messageRepo message.MessageRepository,
    runner AgentRunner,
    config *chatservice.Config,
    logger Logger,
) (*ChatService, error) {
    // Validate dependencies
    if conversationRepo == nil {
        return nil, chatservice.NewValidationError("constructor", "conversation repository is required")
    }
    if messageRepo == nil {
        return nil, chatservice.NewValidationError("constructor", "message repository is required")
    }
    if runner == nil {
        return nil, chatservice.NewValidationError("constructor", "agent runner is required")
    }
    if logger == nil {
        logger = &NoOpLogger{}
    }
    if config == nil {
        config = chatservice.DefaultConfig()
    }
    if err := config.Validate(); err != nil {
        return nil, chatservice.NewValidationError("config", err.Error())
    }

    return &ChatService{
        config:           config,
        conversationRepo: conversationRepo,
        messageRepo:      messageRepo,
        runner:           runner,
        logger:           logger,
    }, nil
}

// HandleMessage processes one user turn. A zero conversationID starts a new
// conversation; a nonzero one must exist and belong to the caller. The user
// message is persisted before the agent runs, so a crash mid-turn loses the
// reply but never the question.
func (s *ChatService) HandleMessage(ctx context.Context, userID, conversationID uint, text string) (*ChatResult, error) {
    text = strings.TrimSpace(text)
    if text == "" {
        return nil, chatservice.NewValidationError("handle_message", "message cannot be empty")
    }
    if utf8.RuneCountInString(text) > s.config.MaxMessageLen {
        return nil, chatservice.NewValidationError("handle_message", "message exceeds maximum length")
    }

    conv, err := s.resolveConversation(ctx, userID, conversationID)
    if err != nil {
        return nil, err
    }

    history, err := s.messageRepo.FindRecentByConversationID(ctx, conv.ID, s.config.HistoryLimit)
    if err != nil {
        return nil, chatservice.NewInternalError("handle_message", "could not load conversation history", err)
    }

    userMsg := &domain.Message{
        ConversationID: conv.ID,
        UserID:         userID,
        Role:           domain.RoleUser,
        Content:        text,
    }
    if _, err := s.messageRepo.Create(ctx, userMsg); err != nil {
        return nil, chatservice.NewInternalError("handle_message", "could not save user message", err)
    }
    if err := s.conversationRepo.TouchUpdatedAt(ctx, conv.ID); err != nil {
        s.logger.Warn("could not touch conversation", "conversation_id", conv.ID, "error", err.Error())
    }

    agentCtx, cancel := context.WithTimeout(ctx, s.config.AgentTimeout)
    defer cancel()

    result, err := s.runner.Run(agentCtx, userID, history, text)
    if err != nil {
        return nil, chatservice.NewInternalError("handle_message", "assistant could not produce a reply", err)
    }

    assistantMsg := &domain.Message{
        ConversationID: conv.ID,
        UserID:         userID,
        Role:           domain.RoleAssistant,
        Content:        result.Reply,
    }
    if _, err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
        return nil, chatservice.NewInternalError("handle_message", "could not save assistant reply", err)
    }
    if err := s.conversationRepo.TouchUpdatedAt(ctx, conv.ID); err != nil {
        s.logger.Warn("could not touch conversation", "conversation_id", conv.ID, "error", err.Error())
    }

    toolCalls := result.ToolCalls
    if toolCalls == nil {
        toolCalls = []agent.ToolCall{}
    }

    return &ChatResult{
        ConversationID: conv.ID,
        Reply:          result.Reply,
        ReplyHTML:      chatservice.RenderMarkdown(result.Reply),
        ToolCalls:      toolCalls,
        Fallback:       result.Fallback,
    }, nil
}

// resolveConversation loads an existing conversation or starts a new one.
// Absent and wrongly-owned conversations are distinguished so the handler
// can answer 404 versus 403.
func (s *ChatService) resolveConversation(ctx context.Context, userID, conversationID uint) (*domain.Conversation, error) {
    if conversationID == 0 {
        created, err := s.conversationRepo.Create(ctx, &domain.Conversation{UserID: userID})
        if err != nil {
            return nil, chatservice.NewInternalError("resolve_conversation", "could not create conversation", err)
        }
        s.logger.Info("conversation started", "conversation_id", created.ID, "user_id", userID)
        return created, nil
    }

    conv, err := s.conversationRepo.FindByID(ctx, conversationID)
    if err != nil {
        if errors.Is(err, conversation.ErrConversationNotFound) {
            return nil, chatservice.NewNotFoundError("resolve_conversation", conversationID)
        }
        return nil, chatservice.NewInternalError("resolve_conversation", "could not load conversation", err)
    }
    if conv.UserID != userID {
        return nil, chatservice.NewForbiddenError(userID, conversationID)
    }
    return conv, nil
}

// GetUserConversations lists the caller's conversations, newest activity
// first, with the total count for pagination.
func (s *ChatService) GetUserConversations(ctx context.Context, userID uint, limit, offset int) ([]domain.Conversation, int64, error) {
    if limit <= 0 {
        limit = s.config.ConversationPageSize
    }
    if offset < 0 {
        offset = 0
    }
    convs, total, err := s.conversationRepo.FindByUserID(ctx, userID, limit, offset)
    if err != nil {
        return nil, 0, chatservice.NewInternalError("list_conversations", "could not list conversations", err)
    }
    return convs, total, nil
}

// GetConversationMessages returns a conversation's full transcript in
// chronological order, after verifying ownership.
func (s *ChatService) GetConversationMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error) {
    if _, err := s.resolveExisting(ctx, userID, conversationID); err != nil {
        return nil, err
    }

    total, err := s.messageRepo.CountByConversationID(ctx, conversationID)
    if err != nil {
        return nil, chatservice.NewInternalError("get_messages", "could not count messages", err)
    }
    msgs, err := s.messageRepo.FindRecentByConversationID(ctx, conversationID, int(total))
    if err != nil {
        return nil, chatservice.NewInternalError("get_messages", "could not load messages", err)
    }
    return msgs, nil
}

// DeleteConversation removes a conversation and its messages. Messages go
// first so a failure never orphans them behind a deleted conversation.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uint) error {
    if _, err := s.resolveExisting(ctx, userID, conversationID); err != nil {
        return err
    }

    if err := s.messageRepo.DeleteByConversationID(ctx, conversationID); err != nil {
        return chatservice.NewInternalError("delete_conversation", "could not delete messages", err)
    }
    if err := s.conversationRepo.Delete(ctx, conversationID, userID); err != nil {
        if errors.Is(err, conversation.ErrUnauthorizedAccess) {
            return chatservice.NewForbiddenError(userID, conversationID)
        }
        return chatservice.NewInternalError("delete_conversation", "could not delete conversation", err)
    }
    s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
    return nil
}

// resolveExisting is resolveConversation without the create-on-zero path,
// for operations that only make sense against an existing conversation.
func (s *ChatService) resolveExisting(ctx context.Context, userID, conversationID uint) (*domain.Conversation, error) {
    if conversationID == 0 {
        return nil, chatservice.NewValidationError("resolve_conversation", "conversation id is required")
    }
    return s.resolveConversation(ctx, userID, conversationID)
}
