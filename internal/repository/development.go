package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mafather/internal/cache"
	"mafather/internal/database"
	"mafather/internal/models"
	"mafather/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListRecordsQuery carries the filters and paging for development records.
type ListRecordsQuery struct {
	UserID          uuid.UUID
	ChildID         *uuid.UUID
	AgeGroup        string
	DevelopmentArea string
	RecordType      string
	From            *time.Time
	To              *time.Time
	Page            int
	Limit           int
}

// DevelopmentRepository defines the interface for development tracking data
type DevelopmentRepository interface {
	CreateRecord(ctx context.Context, record *models.DevelopmentRecord) error
	GetRecord(ctx context.Context, id uuid.UUID) (*models.DevelopmentRecord, error)
	ListRecords(ctx context.Context, q ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error)
	UpdateRecord(ctx context.Context, record *models.DevelopmentRecord) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	ListMilestones(ctx context.Context, ageGroup, area string) ([]*models.DevelopmentMilestone, error)
	GetMilestone(ctx context.Context, id uuid.UUID) (*models.DevelopmentMilestone, error)
	CreateMilestone(ctx context.Context, milestone *models.DevelopmentMilestone) error

	AchieveMilestone(ctx context.Context, achievement *models.ChildMilestone) error
	UnachieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID) error
	ListChildMilestones(ctx context.Context, childID uuid.UUID) ([]*models.ChildMilestone, error)
}

type developmentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewDevelopmentRepository creates a new development repository
func NewDevelopmentRepository(db *gorm.DB) DevelopmentRepository {
	return &developmentRepository{db: db, log: observability.NewRepoLogger("development_records")}
}

func (r *developmentRepository) CreateRecord(ctx context.Context, record *models.DevelopmentRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]any{"record_id": record.ID, "child_id": record.ChildID})
	return nil
}

func (r *developmentRepository) GetRecord(ctx context.Context, id uuid.UUID) (*models.DevelopmentRecord, error) {
	var record models.DevelopmentRecord
	err := r.db.WithContext(ctx).
		Preload("Child").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("development record")
		}
		return nil, err
	}
	return &record, nil
}

func (r *developmentRepository) ListRecords(ctx context.Context, q ListRecordsQuery) ([]*models.DevelopmentRecord, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.DevelopmentRecord{}).
		Where("user_id = ?", q.UserID)

	if q.ChildID != nil {
		base = base.Where("child_id = ?", *q.ChildID)
	}
	if q.AgeGroup != "" {
		base = base.Where("age_group = ?", q.AgeGroup)
	}
	if q.DevelopmentArea != "" {
		base = base.Where("development_area = ?", q.DevelopmentArea)
	}
	if q.RecordType != "" {
		base = base.Where("record_type = ?", q.RecordType)
	}
	if q.From != nil {
		base = base.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		base = base.Where("date <= ?", *q.To)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*models.DevelopmentRecord
	err := base.
		Preload("Child").
		Preload("Images").
		Order("date DESC, created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *developmentRepository) UpdateRecord(ctx context.Context, record *models.DevelopmentRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "update", map[string]any{"record_id": record.ID})
	return nil
}

func (r *developmentRepository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.DevelopmentRecord{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "delete", map[string]any{"record_id": id})
	return nil
}

func (r *developmentRepository) ListMilestones(ctx context.Context, ageGroup, area string) ([]*models.DevelopmentMilestone, error) {
	key := cache.MilestonesKey(ageGroup, area)
	return cache.CacheAside(ctx, key, cache.MilestoneTTL, func() ([]*models.DevelopmentMilestone, error) {
		var milestones []*models.DevelopmentMilestone
		q := r.db.WithContext(ctx).Where("is_active = ?", true)
		if ageGroup != "" {
			q = q.Where("age_group = ?", ageGroup)
		}
		if area != "" {
			q = q.Where("development_area = ?", area)
		}
		err := q.Order("age_group ASC, display_order ASC").Find(&milestones).Error
		return milestones, err
	})
}

func (r *developmentRepository) GetMilestone(ctx context.Context, id uuid.UUID) (*models.DevelopmentMilestone, error) {
	var milestone models.DevelopmentMilestone
	err := r.db.WithContext(ctx).First(&milestone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("milestone")
		}
		return nil, err
	}
	return &milestone, nil
}

func (r *developmentRepository) CreateMilestone(ctx context.Context, milestone *models.DevelopmentMilestone) error {
	return r.db.WithContext(ctx).Create(milestone).Error
}

// AchieveMilestone records an achievement. The (child_id, milestone_id)
// unique index makes repeat achievements a conflict.
func (r *developmentRepository) AchieveMilestone(ctx context.Context, achievement *models.ChildMilestone) error {
	if err := r.db.WithContext(ctx).Create(achievement).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("milestone already achieved for this child")
		}
		return err
	}
	r.log.LogWrite(ctx, "achieve_milestone", map[string]any{
		"child_id":     achievement.ChildID,
		"milestone_id": achievement.MilestoneID,
	})
	return nil
}

func (r *developmentRepository) UnachieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("child_id = ? AND milestone_id = ?", childID, milestoneID).
		Delete(&models.ChildMilestone{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("milestone achievement")
	}
	return nil
}

func (r *developmentRepository) ListChildMilestones(ctx context.Context, childID uuid.UUID) ([]*models.ChildMilestone, error) {
	var achievements []*models.ChildMilestone
	err := r.db.WithContext(ctx).
		Preload("Milestone").
		Where("child_id = ?", childID).
		Order("achieved_date DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}
