package service

import (
	"context"
	"time"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
)

// DevelopmentService owns child profiles, development records and milestone
// tracking.
type DevelopmentService struct {
	devRepo   repository.DevelopmentRepository
	childRepo repository.ChildRepository
	now       func() time.Time
}

// CreateChildInput registers a child profile.
type CreateChildInput struct {
	UserID    uuid.UUID
	Name      string
	BirthDate time.Time
	Gender    string
}

// CreateRecordInput carries a new development record.
type CreateRecordInput struct {
	UserID          uuid.UUID
	ChildID         uuid.UUID
	Date            time.Time
	AgeGroup        string
	DevelopmentArea string
	Title           string
	Description     string
	RecordType      string
	ImageURLs       []string
}

// UpdateRecordInput carries a record edit. Nil fields are left untouched.
type UpdateRecordInput struct {
	UserID      uuid.UUID
	RecordID    uuid.UUID
	Title       *string
	Description *string
	Date        *time.Time
}

// AchieveMilestoneInput marks a catalog milestone achieved for a child.
type AchieveMilestoneInput struct {
	UserID       uuid.UUID
	ChildID      uuid.UUID
	MilestoneID  uuid.UUID
	AchievedDate time.Time
	Notes        string
}

// NewDevelopmentService creates a new development service.
func NewDevelopmentService(devRepo repository.DevelopmentRepository, childRepo repository.ChildRepository) *DevelopmentService {
	return &DevelopmentService{devRepo: devRepo, childRepo: childRepo, now: time.Now}
}

// CreateChild registers a child profile under the caller's account.
func (s *DevelopmentService) CreateChild(ctx context.Context, in CreateChildInput) (*models.UserChild, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.BirthDate.IsZero() || in.BirthDate.After(s.now()) {
		return nil, models.NewValidationError("Birth date must be in the past")
	}

	child := &models.UserChild{
		UserID:    in.UserID,
		Name:      in.Name,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
	}
	if err := s.childRepo.Create(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

// ListChildren returns the caller's child profiles.
func (s *DevelopmentService) ListChildren(ctx context.Context, userID uuid.UUID) ([]*models.UserChild, error) {
	return s.childRepo.ListByUser(ctx, userID)
}

// DeleteChild removes a child profile. Only the owning parent may delete.
func (s *DevelopmentService) DeleteChild(ctx context.Context, userID, childID uuid.UUID) error {
	child, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		return err
	}
	if child.UserID != userID {
		return models.NewForbiddenError("You can only manage your own children")
	}
	return s.childRepo.Delete(ctx, childID)
}

// CreateRecord validates and writes a development record for one of the
// caller's children.
func (s *DevelopmentService) CreateRecord(ctx context.Context, in CreateRecordInput) (*models.DevelopmentRecord, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if !models.ValidAgeGroup(in.AgeGroup) {
		return nil, models.NewValidationError("Unknown age group")
	}
	if in.DevelopmentArea != "" && !models.ValidDevelopmentArea(in.DevelopmentArea) {
		return nil, models.NewValidationError("Unknown development area")
	}
	if in.Date.After(s.now()) {
		return nil, models.NewValidationError("Record date cannot be in the future")
	}

	recordType := in.RecordType
	if recordType == "" {
		recordType = models.RecordTypeDevelopment
	}

	if err := s.requireOwnChild(ctx, in.UserID, in.ChildID); err != nil {
		return nil, err
	}

	record := &models.DevelopmentRecord{
		UserID:          in.UserID,
		ChildID:         in.ChildID,
		Date:            in.Date,
		AgeGroup:        in.AgeGroup,
		DevelopmentArea: in.DevelopmentArea,
		Title:           in.Title,
		Description:     in.Description,
		RecordType:      recordType,
	}
	for i, url := range in.ImageURLs {
		record.Images = append(record.Images, models.DevelopmentRecordImage{ImageURL: url, Position: i})
	}

	if err := s.devRepo.CreateRecord(ctx, record); err != nil {
		return nil, err
	}
	return s.devRepo.GetRecord(ctx, record.ID)
}

// GetRecord returns one record. Only the owning parent may read it.
func (s *DevelopmentService) GetRecord(ctx context.Context, userID, recordID uuid.UUID) (*models.DevelopmentRecord, error) {
	record, err := s.devRepo.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, models.NewForbiddenError("You can only view your own records")
	}
	return record, nil
}

// ListRecords returns a filtered page of the caller's records.
func (s *DevelopmentService) ListRecords(ctx context.Context, q repository.ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error) {
	if q.AgeGroup != "" && !models.ValidAgeGroup(q.AgeGroup) {
		return nil, 0, models.NewValidationError("Unknown age group")
	}
	if q.DevelopmentArea != "" && !models.ValidDevelopmentArea(q.DevelopmentArea) {
		return nil, 0, models.NewValidationError("Unknown development area")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	return s.devRepo.ListRecords(ctx, q)
}

// UpdateRecord edits a record. Only the owning parent may edit.
func (s *DevelopmentService) UpdateRecord(ctx context.Context, in UpdateRecordInput) (*models.DevelopmentRecord, error) {
	record, err := s.devRepo.GetRecord(ctx, in.RecordID)
	if err != nil {
		return nil, err
	}
	if record.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own records")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		record.Title = *in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, models.NewValidationError("Description is required")
		}
		record.Description = *in.Description
	}
	if in.Date != nil {
		if in.Date.After(s.now()) {
			return nil, models.NewValidationError("Record date cannot be in the future")
		}
		record.Date = *in.Date
	}

	if err := s.devRepo.UpdateRecord(ctx, record); err != nil {
		return nil, err
	}
	return s.devRepo.GetRecord(ctx, record.ID)
}

// DeleteRecord removes a record. Only the owning parent may delete.
func (s *DevelopmentService) DeleteRecord(ctx context.Context, userID, recordID uuid.UUID) error {
	record, err := s.devRepo.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return models.NewForbiddenError("You can only delete your own records")
	}
	return s.devRepo.DeleteRecord(ctx, recordID)
}

// ListMilestones returns the active milestone catalog, optionally filtered.
func (s *DevelopmentService) ListMilestones(ctx context.Context, ageGroup, area string) ([]*models.DevelopmentMilestone, error) {
	if ageGroup != "" && !models.ValidAgeGroup(ageGroup) {
		return nil, models.NewValidationError("Unknown age group")
	}
	if area != "" && !models.ValidDevelopmentArea(area) {
		return nil, models.NewValidationError("Unknown development area")
	}
	return s.devRepo.ListMilestones(ctx, ageGroup, area)
}

// AchieveMilestone marks a milestone achieved for one of the caller's
// children. Achieving twice is a conflict.
func (s *DevelopmentService) AchieveMilestone(ctx context.Context, in AchieveMilestoneInput) (*models.ChildMilestone, error) {
	if err := s.requireOwnChild(ctx, in.UserID, in.ChildID); err != nil {
		return nil, err
	}
	if _, err := s.devRepo.GetMilestone(ctx, in.MilestoneID); err != nil {
		return nil, err
	}

	achievedDate := in.AchievedDate
	if achievedDate.IsZero() {
		achievedDate = s.now()
	}
	if achievedDate.After(s.now()) {
		return nil, models.NewValidationError("Achieved date cannot be in the future")
	}

	achievement := &models.ChildMilestone{
		ChildID:      in.ChildID,
		MilestoneID:  in.MilestoneID,
		AchievedDate: achievedDate,
		Notes:        in.Notes,
	}
	if err := s.devRepo.AchieveMilestone(ctx, achievement); err != nil {
		return nil, err
	}
	return achievement, nil
}

// UnachieveMilestone removes an achievement for one of the caller's children.
func (s *DevelopmentService) UnachieveMilestone(ctx context.Context, userID, childID, milestoneID uuid.UUID) error {
	if err := s.requireOwnChild(ctx, userID, childID); err != nil {
		return err
	}
	return s.devRepo.UnachieveMilestone(ctx, childID, milestoneID)
}

// ListChildMilestones returns the achievements for one of the caller's
// children.
func (s *DevelopmentService) ListChildMilestones(ctx context.Context, userID, childID uuid.UUID) ([]*models.ChildMilestone, error) {
	if err := s.requireOwnChild(ctx, userID, childID); err != nil {
		return nil, err
	}
	return s.devRepo.ListChildMilestones(ctx, childID)
}

func (s *DevelopmentService) requireOwnChild(ctx context.Context, userID, childID uuid.UUID) error {
	child, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		return err
	}
	if child.UserID != userID {
		return models.NewForbiddenError("You can only manage your own children")
	}
	return nil
}
