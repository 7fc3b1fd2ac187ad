// File: internal/repository/message/message_repository_test.go
package message_test

import (
    "context"
    "fmt"
    "testing"

    "github.com/glebarez/sqlite"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/repository/message"
)

func newTestRepo(t *testing.T) message.MessageRepository {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&domain.Message{}))
    return message.NewMessageRepository(db)
}

func appendMessage(t *testing.T, repo message.MessageRepository, convID uint, role, content string) *domain.Message {
    t.Helper()
    msg, err := repo.Create(context.Background(), &domain.Message{
        ConversationID: convID,
        UserID:         1,
        Role:           role,
        Content:        content,
    })
    require.NoError(t, err)
    return msg
}

func TestCreateValidation(t *testing.T) {
    repo := newTestRepo(t)
    ctx := context.Background()

    tests := []struct {
        name string
        msg  domain.Message
    }{
        {"missing conversation", domain.Message{UserID: 1, Role: domain.RoleUser, Content: "hi"}},
        {"missing user", domain.Message{ConversationID: 1, Role: domain.RoleUser, Content: "hi"}},
        {"bad role", domain.Message{ConversationID: 1, UserID: 1, Role: "system", Content: "hi"}},
        {"empty content", domain.Message{ConversationID: 1, UserID: 1, Role: domain.RoleUser, Content: "  "}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            msg := tt.msg
            _, err := repo.Create(ctx, &msg)
            assert.Error(t, err)
        })
    }
}

func TestFindRecentReturnsChronologicalTail(t *testing.T) {
    repo := newTestRepo(t)
    ctx := context.Background()

    for i := 1; i <= 6; i++ {
        role := domain.RoleUser
        if i%2 == 0 {
            role = domain.RoleAssistant
        }
        appendMessage(t, repo, 1, role, fmt.Sprintf("turn %d", i))
    }
    appendMessage(t, repo, 2, domain.RoleUser, "other conversation")

    msgs, err := repo.FindRecentByConversationID(ctx, 1, 4)
    require.NoError(t, err)
    require.Len(t, msgs, 4)

    // Oldest-first within the returned window, and only the tail.
    assert.Equal(t, "turn 3", msgs[0].Content)
    assert.Equal(t, "turn 6", msgs[3].Content)
    for i := 1; i < len(msgs); i++ {
        assert.True(t, msgs[i-1].ID < msgs[i].ID)
    }
}

func TestCountAndDeleteByConversation(t *testing.T) {
    repo := newTestRepo(t)
    ctx := context.Background()

    appendMessage(t, repo, 1, domain.RoleUser, "hello")
    appendMessage(t, repo, 1, domain.RoleAssistant, "hi there")
    appendMessage(t, repo, 2, domain.RoleUser, "unrelated")

    count, err := repo.CountByConversationID(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, int64(2), count)

    require.NoError(t, repo.DeleteByConversationID(ctx, 1))

    count, err = repo.CountByConversationID(ctx, 1)
    require.NoError(t, err)
    assert.Zero(t, count)

    count, err = repo.CountByConversationID(ctx, 2)
    require.NoError(t, err)
    assert.Equal(t, int64(1), count)
}
