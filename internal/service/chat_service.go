package service

import (
	"context"
	"time"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
)

const maxChatMessageLen = 4000

// ChatService owns the chatbot session log.
type ChatService struct {
	chatRepo repository.ChatRepository
	now      func() time.Time
}

// StartSessionInput opens a new chat session.
type StartSessionInput struct {
	UserID   uuid.UUID
	Title    string
	Category string
}

// AppendMessageInput adds one message to an active session.
type AppendMessageInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      string
	Content   string
	Tokens    int
	Metadata  []byte
}

// NewChatService creates a new chat service.
func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, now: time.Now}
}

// StartSession opens an active session under the given counsel category.
func (s *ChatService) StartSession(ctx context.Context, in StartSessionInput) (*models.ChatSession, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if !models.ValidChatCategory(in.Category) {
		return nil, models.NewValidationError("Unknown counsel category")
	}

	session := &models.ChatSession{
		UserID:   in.UserID,
		Title:    in.Title,
		Category: in.Category,
		Status:   models.ChatStatusActive,
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session with its messages. Only the owner may read it.
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.NewForbiddenError("You can only view your own chat sessions")
	}

	messages, err := s.chatRepo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		session.Messages = append(session.Messages, *m)
	}
	return session, nil
}

// ListSessions returns the caller's sessions, optionally filtered by status.
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID, status string, page, limit int) ([]*models.ChatSession, int64, error) {
	if status != "" && status != models.ChatStatusActive &&
		status != models.ChatStatusCompleted && status != models.ChatStatusExpired {
		return nil, 0, models.NewValidationError("Unknown session status")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return s.chatRepo.ListSessions(ctx, userID, status, limit, (page-1)*limit)
}

// AppendMessage writes one message into an active session and folds its token
// cost into the session total. Completed and expired sessions are terminal
// and reject writes.
func (s *ChatService) AppendMessage(ctx context.Context, in AppendMessageInput) (*models.ChatMessage, error) {
	if !models.ValidChatRole(in.Role) {
		return nil, models.NewValidationError("Unknown message role")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxChatMessageLen {
		return nil, models.NewValidationError("Message too long (max 4000 characters)")
	}
	if in.Tokens < 0 {
		return nil, models.NewValidationError("Token count cannot be negative")
	}

	session, err := s.chatRepo.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only write to your own chat sessions")
	}
	if !session.IsActive() {
		return nil, models.NewValidationError("Session is no longer active")
	}

	message := &models.ChatMessage{
		SessionID: in.SessionID,
		Role:      in.Role,
		Content:   in.Content,
		Tokens:    in.Tokens,
		Metadata:  in.Metadata,
		CreatedAt: s.now(),
	}
	if err := s.chatRepo.AppendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// CompleteSession moves an active session to its completed terminal state.
func (s *ChatService) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.NewForbiddenError("You can only complete your own chat sessions")
	}
	if !session.IsActive() {
		return nil, models.NewValidationError("Session is no longer active")
	}

	session.Status = models.ChatStatusCompleted
	if err := s.chatRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session from the caller's history. The session is
// hidden rather than destroyed, and its status moves to expired so it can
// never accept another message.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return models.NewForbiddenError("You can only delete your own chat sessions")
	}
	return s.chatRepo.SoftDeleteSession(ctx, sessionID)
}

// Stats aggregates the caller's chat history.
func (s *ChatService) Stats(ctx context.Context, userID uuid.UUID) (*repository.ChatStats, error) {
	return s.chatRepo.Stats(ctx, userID)
}
