package server

import (
	"mafather/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListCategories returns active categories, optionally filtered by post type.
//
//	@Summary		List active categories
//	@Tags			categories
//	@Param			post_type	query	string	false	"Filter by post type"
//	@Success		200	{array}	models.Category
//	@Router			/categories/ [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListActive(c.Context(), c.Query("post_type"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(categories)
}
