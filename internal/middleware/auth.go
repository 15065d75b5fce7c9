// Package middleware provides authentication, logging and rate-limiting
// middleware for the application.
package middleware

import (
	"strings"

	"mafather/internal/config"
	"mafather/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	userID, ok := parseBearer(c)
	if !ok {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("Authorization required"))
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth extracts the user ID when a valid token is present but never
// rejects the request.
func OptionalAuth(c *fiber.Ctx) error {
	if userID, ok := parseBearer(c); ok {
		c.Locals("userID", userID)
	}
	return c.Next()
}

// UserID returns the authenticated user ID stored by AuthRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("userID").(uuid.UUID)
	return id, ok
}

func parseBearer(c *fiber.Ctx) (uuid.UUID, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "mafather-api" {
		return uuid.Nil, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
