package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mafather/internal/config"
	"mafather/internal/database"
	"mafather/internal/middleware"
	"mafather/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const handlerTestSecret = "handler-test-secret-0123456789abcdef"

// newTestServer builds a server over an in-memory database with routes
// registered but without the global middleware chain, so tests exercise
// handlers and route-level auth directly.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	cfg := &config.Config{
		JWTSecret: handlerTestSecret,
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)

	s := &Server{
		app:    fiber.New(fiber.Config{ErrorHandler: errorHandler}),
		config: cfg,
		db:     db,
	}
	s.initDeps()
	s.SetupRoutes()
	return s
}

func authToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iss": "mafather-api",
		"aud": "mafather-client",
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(handlerTestSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, s *Server, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func seedUser(t *testing.T, s *Server, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Test Parent",
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, s *Server) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     "Sleep Questions",
		PostType: models.PostTypeQuestion,
		IsActive: true,
	}
	require.NoError(t, s.db.Create(category).Error)
	return category
}

func seedPost(t *testing.T, s *Server, user *models.User, category *models.Category) *models.Post {
	t.Helper()

	post := &models.Post{
		UserID:     user.ID,
		CategoryID: category.ID,
		PostType:   category.PostType,
		Title:      "How do I get my baby to sleep?",
		Content:    "She wakes up every two hours.",
		Status:     models.PostStatusPublished,
	}
	require.NoError(t, s.db.Create(post).Error)
	return post
}

func seedChild(t *testing.T, s *Server, user *models.User) *models.UserChild {
	t.Helper()

	child := &models.UserChild{
		UserID:    user.ID,
		Name:      "Minjun",
		BirthDate: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, s.db.Create(child).Error)
	return child
}
