package server

import (
	"time"

	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/repository"
	"mafather/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createRecordRequest struct {
	ChildID         uuid.UUID `json:"child_id"`
	Date            time.Time `json:"date"`
	AgeGroup        string    `json:"age_group"`
	DevelopmentArea string    `json:"development_area"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RecordType      string    `json:"record_type"`
	ImageURLs       []string  `json:"image_urls"`
}

type updateRecordRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
}

type achieveMilestoneRequest struct {
	AchievedDate time.Time `json:"achieved_date"`
	Notes        string    `json:"notes"`
}

type recordPage struct {
	Records []*models.DevelopmentRecord `json:"records"`
	Total   int64                       `json:"total"`
	Page    int                         `json:"page"`
	Limit   int                         `json:"limit"`
}

func milestonePathIDs(c *fiber.Ctx) (childID, milestoneID uuid.UUID, err error) {
	childID, err = uuid.Parse(c.Params("child_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, models.NewValidationError("Invalid child ID")
	}
	milestoneID, err = uuid.Parse(c.Params("milestone_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, models.NewValidationError("Invalid milestone ID")
	}
	return childID, milestoneID, nil
}

// ListMilestones returns the milestone catalog.
//
//	@Summary		List the milestone catalog
//	@Tags			development
//	@Param			age_group	query	string	false	"Filter by age group"
//	@Param			area		query	string	false	"Filter by development area"
//	@Success		200	{array}	models.DevelopmentMilestone
//	@Router			/milestones/ [get]
func (s *Server) ListMilestones(c *fiber.Ctx) error {
	milestones, err := s.devService.ListMilestones(c.Context(), c.Query("age_group"), c.Query("area"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(milestones)
}

// AchieveMilestone marks a catalog milestone achieved for a child.
//
//	@Summary		Mark a milestone achieved
//	@Tags			development
//	@Security		BearerAuth
//	@Param			child_id		path		string					true	"Child ID"
//	@Param			milestone_id	path		string					true	"Milestone ID"
//	@Param			body			body		achieveMilestoneRequest	false	"Achievement details"
//	@Success		201				{object}	models.ChildMilestone
//	@Failure		409				{object}	models.ErrorResponse
//	@Router			/children/{child_id}/milestones/{milestone_id}/achieve/ [post]
func (s *Server) AchieveMilestone(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	childID, milestoneID, err := milestonePathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	req := achieveMilestoneRequest{}
	_ = c.BodyParser(&req)

	achievement, err := s.devService.AchieveMilestone(c.Context(), service.AchieveMilestoneInput{
		UserID:       userID,
		ChildID:      childID,
		MilestoneID:  milestoneID,
		AchievedDate: req.AchievedDate,
		Notes:        req.Notes,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(achievement)
}

// UnachieveMilestone removes an achievement.
//
//	@Summary		Remove a milestone achievement
//	@Tags			development
//	@Security		BearerAuth
//	@Param			child_id		path	string	true	"Child ID"
//	@Param			milestone_id	path	string	true	"Milestone ID"
//	@Success		200
//	@Router			/children/{child_id}/milestones/{milestone_id}/achieve/ [delete]
func (s *Server) UnachieveMilestone(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	childID, milestoneID, err := milestonePathIDs(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.devService.UnachieveMilestone(c.Context(), userID, childID, milestoneID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Achievement removed"})
}

// ListChildMilestones returns a child's achievements.
//
//	@Summary		List a child's achieved milestones
//	@Tags			development
//	@Security		BearerAuth
//	@Param			child_id	path	string	true	"Child ID"
//	@Success		200	{array}	models.ChildMilestone
//	@Router			/children/{child_id}/milestones/ [get]
func (s *Server) ListChildMilestones(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	childID, err := uuid.Parse(c.Params("child_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid child ID"))
	}

	achievements, err := s.devService.ListChildMilestones(c.Context(), userID, childID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(achievements)
}

// CreateRecord writes a development record.
//
//	@Summary		Create a development record
//	@Tags			development
//	@Security		BearerAuth
//	@Param			body	body		createRecordRequest	true	"Record details"
//	@Success		201		{object}	models.DevelopmentRecord
//	@Router			/records/create/ [post]
func (s *Server) CreateRecord(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req createRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	record, err := s.devService.CreateRecord(c.Context(), service.CreateRecordInput{
		UserID:          userID,
		ChildID:         req.ChildID,
		Date:            req.Date,
		AgeGroup:        req.AgeGroup,
		DevelopmentArea: req.DevelopmentArea,
		Title:           req.Title,
		Description:     req.Description,
		RecordType:      req.RecordType,
		ImageURLs:       req.ImageURLs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListRecords returns a filtered page of the caller's records.
//
//	@Summary		List development records
//	@Tags			development
//	@Security		BearerAuth
//	@Param			child_id	query	string	false	"Filter by child"
//	@Param			age_group	query	string	false	"Filter by age group"
//	@Param			area		query	string	false	"Filter by development area"
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size"
//	@Success		200	{object}	recordPage
//	@Router			/records/ [get]
func (s *Server) ListRecords(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	q := repository.ListRecordsQuery{
		UserID:          userID,
		AgeGroup:        c.Query("age_group"),
		DevelopmentArea: c.Query("area"),
		RecordType:      c.Query("record_type"),
		Page:            c.QueryInt("page", 1),
		Limit:           c.QueryInt("limit", 20),
	}
	if raw := c.Query("child_id"); raw != "" {
		childID, err := uuid.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Invalid child ID"))
		}
		q.ChildID = &childID
	}

	records, total, err := s.devService.ListRecords(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(recordPage{Records: records, Total: total, Page: q.Page, Limit: q.Limit})
}

// GetRecord returns one record.
//
//	@Summary		Get a development record
//	@Tags			development
//	@Security		BearerAuth
//	@Param			record_id	path		string	true	"Record ID"
//	@Success		200			{object}	models.DevelopmentRecord
//	@Router			/records/{record_id}/ [get]
func (s *Server) GetRecord(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid record ID"))
	}

	record, err := s.devService.GetRecord(c.Context(), userID, recordID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(record)
}

// UpdateRecord edits a record.
//
//	@Summary		Update a development record
//	@Tags			development
//	@Security		BearerAuth
//	@Param			record_id	path		string				true	"Record ID"
//	@Param			body		body		updateRecordRequest	true	"Fields to change"
//	@Success		200			{object}	models.DevelopmentRecord
//	@Router			/records/{record_id}/ [put]
func (s *Server) UpdateRecord(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid record ID"))
	}

	var req updateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	record, err := s.devService.UpdateRecord(c.Context(), service.UpdateRecordInput{
		UserID:      userID,
		RecordID:    recordID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(record)
}

// DeleteRecord removes a record.
//
//	@Summary		Delete a development record
//	@Tags			development
//	@Security		BearerAuth
//	@Param			record_id	path	string	true	"Record ID"
//	@Success		200
//	@Router			/records/{record_id}/ [delete]
func (s *Server) DeleteRecord(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid record ID"))
	}

	if err := s.devService.DeleteRecord(c.Context(), userID, recordID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}
