package server

import (
	"encoding/json"

	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type startSessionRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type appendMessageRequest struct {
	Role     string          `json:"role"`
	Content  string          `json:"content"`
	Tokens   int             `json:"tokens"`
	Metadata json.RawMessage `json:"metadata"`
}

type sessionPage struct {
	Sessions []*models.ChatSession `json:"sessions"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
}

func sessionPathID(c *fiber.Ctx) (uuid.UUID, error) {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return uuid.Nil, models.NewValidationError("Invalid session ID")
	}
	return sessionID, nil
}

// StartChatSession opens a new chatbot session.
//
//	@Summary		Start a chat session
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			body	body		startSessionRequest	true	"Session details"
//	@Success		201		{object}	models.ChatSession
//	@Router			/chat/sessions/ [post]
func (s *Server) StartChatSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req startSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	session, err := s.chatService.StartSession(c.Context(), service.StartSessionInput{
		UserID:   userID,
		Title:    req.Title,
		Category: req.Category,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// ListChatSessions returns the caller's sessions, most recently active first.
//
//	@Summary		List chat sessions
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			status	query		string	false	"Filter by status"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	sessionPage
//	@Router			/chat/sessions/ [get]
func (s *Server) ListChatSessions(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	sessions, total, err := s.chatService.ListSessions(c.Context(), userID, c.Query("status"), page, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(sessionPage{Sessions: sessions, Total: total, Page: page, Limit: limit})
}

// GetChatSession returns one session with its messages.
//
//	@Summary		Get a chat session
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			session_id	path		string	true	"Session ID"
//	@Success		200			{object}	models.ChatSession
//	@Failure		403			{object}	models.ErrorResponse
//	@Router			/chat/sessions/{session_id}/ [get]
func (s *Server) GetChatSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	sessionID, err := sessionPathID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	session, err := s.chatService.GetSession(c.Context(), userID, sessionID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(session)
}

// AppendChatMessage writes a message into an active session.
//
//	@Summary		Append a message to a session
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			session_id	path		string					true	"Session ID"
//	@Param			body		body		appendMessageRequest	true	"Message"
//	@Success		201			{object}	models.ChatMessage
//	@Failure		400			{object}	models.ErrorResponse
//	@Router			/chat/sessions/{session_id}/messages/ [post]
func (s *Server) AppendChatMessage(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	sessionID, err := sessionPathID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req appendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	message, err := s.chatService.AppendMessage(c.Context(), service.AppendMessageInput{
		UserID:    userID,
		SessionID: sessionID,
		Role:      req.Role,
		Content:   req.Content,
		Tokens:    req.Tokens,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// CompleteChatSession moves a session to its completed terminal state.
//
//	@Summary		Complete a chat session
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			session_id	path		string	true	"Session ID"
//	@Success		200			{object}	models.ChatSession
//	@Router			/chat/sessions/{session_id}/complete/ [post]
func (s *Server) CompleteChatSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	sessionID, err := sessionPathID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	session, err := s.chatService.CompleteSession(c.Context(), userID, sessionID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(session)
}

// DeleteChatSession removes a session from the caller's history.
//
//	@Summary		Delete a chat session
//	@Tags			chat
//	@Security		BearerAuth
//	@Param			session_id	path	string	true	"Session ID"
//	@Success		200
//	@Router			/chat/sessions/{session_id}/ [delete]
func (s *Server) DeleteChatSession(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	sessionID, err := sessionPathID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.chatService.DeleteSession(c.Context(), userID, sessionID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session deleted"})
}

// ChatStats aggregates the caller's chat history.
//
//	@Summary		Chat usage stats
//	@Tags			chat
//	@Security		BearerAuth
//	@Success		200	{object}	repository.ChatStats
//	@Router			/chat/sessions/stats/ [get]
func (s *Server) ChatStats(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	stats, err := s.chatService.Stats(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}
