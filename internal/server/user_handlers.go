package server

import (
	"time"

	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type updateMeRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
}

type createChildRequest struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Gender    string    `json:"gender"`
}

// GetMe returns the authenticated user's profile.
//
//	@Summary		Get own profile
//	@Tags			users
//	@Security		BearerAuth
//	@Success		200	{object}	models.User
//	@Router			/users/me/ [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateMe edits the authenticated user's profile.
//
//	@Summary		Update own profile
//	@Tags			users
//	@Security		BearerAuth
//	@Param			body	body		updateMeRequest	true	"Fields to change"
//	@Success		200		{object}	models.User
//	@Router			/users/me/ [put]
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if req.Name != nil {
		if *req.Name == "" {
			return models.RespondWithError(c, models.NewValidationError("Name is required"))
		}
		user.Name = *req.Name
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// CreateChild registers a child profile under the caller's account.
//
//	@Summary		Add a child profile
//	@Tags			users
//	@Security		BearerAuth
//	@Param			body	body		createChildRequest	true	"Child details"
//	@Success		201		{object}	models.UserChild
//	@Router			/users/me/children/ [post]
func (s *Server) CreateChild(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req createChildRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	child, err := s.devService.CreateChild(c.Context(), service.CreateChildInput{
		UserID:    userID,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(child)
}

// ListChildren returns the caller's child profiles.
//
//	@Summary		List own children
//	@Tags			users
//	@Security		BearerAuth
//	@Success		200	{array}	models.UserChild
//	@Router			/users/me/children/ [get]
func (s *Server) ListChildren(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	children, err := s.devService.ListChildren(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(children)
}

// DeleteChild removes one of the caller's child profiles.
//
//	@Summary		Delete a child profile
//	@Tags			users
//	@Security		BearerAuth
//	@Param			child_id	path	string	true	"Child ID"
//	@Success		200
//	@Router			/users/me/children/{child_id}/ [delete]
func (s *Server) DeleteChild(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	childID, err := uuid.Parse(c.Params("child_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid child ID"))
	}
	if err := s.devService.DeleteChild(c.Context(), userID, childID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Child deleted"})
}
