package repository

import (
	"context"
	"errors"

	"mafather/internal/cache"
	"mafather/internal/models"
	"mafather/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatStats aggregates a user's chat history.
type ChatStats struct {
	TotalSessions  int64 `json:"total_sessions"`
	ActiveSessions int64 `json:"active_sessions"`
	TotalTokens    int64 `json:"total_tokens"`
}

// ChatRepository defines the interface for chat session data operations
type ChatRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*models.ChatSession, int64, error)
	UpdateSession(ctx context.Context, session *models.ChatSession) error
	SoftDeleteSession(ctx context.Context, id uuid.UUID) error
	AppendMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*models.ChatMessage, error)
	Stats(ctx context.Context, userID uuid.UUID) (*ChatStats, error)
}

type chatRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db, log: observability.NewRepoLogger("chat_sessions")}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "create_session", map[string]any{"session_id": session.ID})
	return nil
}

func (r *chatRepository) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("chat session")
		}
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) ListSessions(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*models.ChatSession, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("user_id = ?", userID)
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []*models.ChatSession
	err := base.
		Order("COALESCE(last_message_at, created_at) DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *chatRepository) UpdateSession(ctx context.Context, session *models.ChatSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// SoftDeleteSession marks the session expired and hides it. Both writes share
// one transaction so a hidden session can never read as still active.
func (r *chatRepository) SoftDeleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ChatSession{}).
			Where("id = ?", id).
			Update("status", models.ChatStatusExpired).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatSession{}, "id = ?", id).Error
	})
}

// AppendMessage inserts the message and folds its token cost into the
// session's running total in one transaction. last_message_at moves to the
// message's timestamp.
func (r *chatRepository) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	defer observability.TrackQuery("append_message", "chat_messages")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatSession{}).
			Where("id = ?", message.SessionID).
			Updates(map[string]any{
				"total_tokens":    gorm.Expr("total_tokens + ?", message.Tokens),
				"last_message_at": message.CreatedAt,
			}).Error
	})
	if err != nil {
		return err
	}

	observability.ChatTokensTotal.WithLabelValues(message.Role).Add(float64(message.Tokens))
	r.log.LogWrite(ctx, "append_message", map[string]any{
		"session_id": message.SessionID,
		"role":       message.Role,
		"tokens":     message.Tokens,
	})
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// Stats aggregates a user's session and token usage. Results are cached with
// a short TTL and no write invalidation; stats may lag a few minutes.
func (r *chatRepository) Stats(ctx context.Context, userID uuid.UUID) (*ChatStats, error) {
	return cache.CacheAside(ctx, cache.ChatStatsKey(userID), cache.ChatStatsTTL, func() (*ChatStats, error) {
		var stats ChatStats
		err := r.db.WithContext(ctx).
			Model(&models.ChatSession{}).
			Select(
				"COUNT(*) as total_sessions, "+
					"COUNT(*) FILTER (WHERE status = ?) as active_sessions, "+
					"COALESCE(SUM(total_tokens), 0) as total_tokens",
				models.ChatStatusActive,
			).
			Where("user_id = ?", userID).
			Scan(&stats).Error
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
}
