package service

import (
	"context"
	"strings"
	"testing"

	"mafather/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_StartSession(t *testing.T) {
	t.Parallel()

	svc := NewChatService(noopChatRepo())
	ctx := context.Background()

	t.Run("valid category opens active session", func(t *testing.T) {
		t.Parallel()
		session, err := svc.StartSession(ctx, StartSessionInput{
			UserID:   uuid.New(),
			Title:    "Night feeding",
			Category: models.ChatCategorySleep,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ChatStatusActive, session.Status)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.StartSession(ctx, StartSessionInput{
			UserID:   uuid.New(),
			Title:    "x",
			Category: "astrology",
		})
		assertValidationError(t, err)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.StartSession(ctx, StartSessionInput{
			UserID:   uuid.New(),
			Category: models.ChatCategoryGeneral,
		})
		assertValidationError(t, err)
	})
}

func TestChatService_AppendMessage(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	sessionID := uuid.New()

	activeSession := func() *chatRepoStub {
		repo := noopChatRepo()
		repo.getSessionFn = func(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
			return &models.ChatSession{ID: id, UserID: owner, Status: models.ChatStatusActive}, nil
		}
		return repo
	}

	valid := AppendMessageInput{
		UserID:    owner,
		SessionID: sessionID,
		Role:      models.ChatRoleUser,
		Content:   "hello",
		Tokens:    3,
	}

	t.Run("writes into active session", func(t *testing.T) {
		t.Parallel()
		var appended *models.ChatMessage
		repo := activeSession()
		repo.appendMessageFn = func(_ context.Context, m *models.ChatMessage) error {
			appended = m
			return nil
		}
		svc := NewChatService(repo)
		message, err := svc.AppendMessage(context.Background(), valid)
		require.NoError(t, err)
		require.NotNil(t, appended)
		assert.Equal(t, 3, message.Tokens)
		assert.False(t, message.CreatedAt.IsZero())
	})

	t.Run("terminal session rejects writes", func(t *testing.T) {
		t.Parallel()
		for _, status := range []string{models.ChatStatusCompleted, models.ChatStatusExpired} {
			repo := noopChatRepo()
			repo.getSessionFn = func(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
				return &models.ChatSession{ID: id, UserID: owner, Status: status}, nil
			}
			svc := NewChatService(repo)
			_, err := svc.AppendMessage(context.Background(), valid)
			assertValidationError(t, err)
		}
	})

	t.Run("foreign session is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(activeSession())
		in := valid
		in.UserID = uuid.New()
		_, err := svc.AppendMessage(context.Background(), in)
		assertForbiddenError(t, err)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(activeSession())
		in := valid
		in.Role = "moderator"
		_, err := svc.AppendMessage(context.Background(), in)
		assertValidationError(t, err)
	})

	t.Run("negative tokens rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(activeSession())
		in := valid
		in.Tokens = -1
		_, err := svc.AppendMessage(context.Background(), in)
		assertValidationError(t, err)
	})

	t.Run("message too long rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewChatService(activeSession())
		in := valid
		in.Content = strings.Repeat("x", 4001)
		_, err := svc.AppendMessage(context.Background(), in)
		assertValidationError(t, err)
	})
}

func TestChatService_CompleteSession(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("active session completes", func(t *testing.T) {
		t.Parallel()
		var updated *models.ChatSession
		repo := noopChatRepo()
		repo.getSessionFn = func(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
			return &models.ChatSession{ID: id, UserID: owner, Status: models.ChatStatusActive}, nil
		}
		repo.updateSessionFn = func(_ context.Context, s *models.ChatSession) error {
			updated = s
			return nil
		}
		svc := NewChatService(repo)
		session, err := svc.CompleteSession(context.Background(), owner, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, models.ChatStatusCompleted, session.Status)
		require.NotNil(t, updated)
	})

	t.Run("completing twice is rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopChatRepo()
		repo.getSessionFn = func(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
			return &models.ChatSession{ID: id, UserID: owner, Status: models.ChatStatusCompleted}, nil
		}
		svc := NewChatService(repo)
		_, err := svc.CompleteSession(context.Background(), owner, uuid.New())
		assertValidationError(t, err)
	})
}

func TestChatService_ListSessions_UnknownStatus(t *testing.T) {
	t.Parallel()

	svc := NewChatService(noopChatRepo())
	_, _, err := svc.ListSessions(context.Background(), uuid.New(), "paused", 1, 10)
	assertValidationError(t, err)
}
