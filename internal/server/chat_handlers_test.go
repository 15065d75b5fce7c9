package server

import (
	"fmt"
	"net/http"
	"testing"

	"mafather/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSession(t *testing.T, s *Server, token string) models.ChatSession {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/chat/sessions/", map[string]string{
		"title":    "Night feeding questions",
		"category": models.ChatCategorySleep,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp := doRequest(t, s, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session models.ChatSession
	decodeBody(t, resp, &session)
	return session
}

func TestChatSessionTokenAccounting(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := seedUser(t, s, "parent@example.com")
	token := authToken(t, user.ID)
	session := startSession(t, s, token)

	path := fmt.Sprintf("/chat/sessions/%s/messages/", session.ID)
	for _, m := range []map[string]any{
		{"role": models.ChatRoleUser, "content": "How often should she feed at night?", "tokens": 12},
		{"role": models.ChatRoleAssistant, "content": "At nine months, many babies...", "tokens": 48},
	} {
		req := jsonRequest(t, http.MethodPost, path, m)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := doRequest(t, s, req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var reloaded models.ChatSession
	require.NoError(t, s.db.First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, 60, reloaded.TotalTokens)
	require.NotNil(t, reloaded.LastMessageAt)
}

func TestChatCompletedSessionRejectsMessages(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := seedUser(t, s, "parent@example.com")
	token := authToken(t, user.ID)
	session := startSession(t, s, token)

	req := jsonRequest(t, http.MethodPost, fmt.Sprintf("/chat/sessions/%s/complete/", session.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(t, http.MethodPost, fmt.Sprintf("/chat/sessions/%s/messages/", session.ID), map[string]any{
		"role": models.ChatRoleUser, "content": "one more thing", "tokens": 3,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp = doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatSessionOwnerOnly(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := seedUser(t, s, "owner@example.com")
	stranger := seedUser(t, s, "stranger@example.com")
	session := startSession(t, s, authToken(t, owner.ID))

	req := jsonRequest(t, http.MethodGet, fmt.Sprintf("/chat/sessions/%s/", session.ID), nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, stranger.ID))
	resp := doRequest(t, s, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestChatDeleteHidesAndExpiresSession(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := seedUser(t, s, "parent@example.com")
	token := authToken(t, user.ID)
	session := startSession(t, s, token)

	req := jsonRequest(t, http.MethodDelete, fmt.Sprintf("/chat/sessions/%s/", session.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Hidden from the list.
	req = jsonRequest(t, http.MethodGet, "/chat/sessions/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = doRequest(t, s, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page sessionPage
	decodeBody(t, resp, &page)
	assert.Empty(t, page.Sessions)

	// The row survives with terminal status.
	var reloaded models.ChatSession
	require.NoError(t, s.db.Unscoped().First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, models.ChatStatusExpired, reloaded.Status)
	assert.True(t, reloaded.DeletedAt.Valid)
}

func TestChatUnknownCategoryRejected(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := seedUser(t, s, "parent@example.com")

	req := jsonRequest(t, http.MethodPost, "/chat/sessions/", map[string]string{
		"title":    "x",
		"category": "astrology",
	})
	req.Header.Set("Authorization", "Bearer "+authToken(t, user.ID))
	resp := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
