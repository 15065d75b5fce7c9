package repository

import (
	"context"
	"errors"

	"mafather/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChildRepository defines the interface for child profile data operations
type ChildRepository interface {
	Create(ctx context.Context, child *models.UserChild) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserChild, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserChild, error)
	Update(ctx context.Context, child *models.UserChild) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type childRepository struct {
	db *gorm.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *gorm.DB) ChildRepository {
	return &childRepository{db: db}
}

func (r *childRepository) Create(ctx context.Context, child *models.UserChild) error {
	return r.db.WithContext(ctx).Create(child).Error
}

func (r *childRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserChild, error) {
	var child models.UserChild
	err := r.db.WithContext(ctx).First(&child, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("child")
		}
		return nil, err
	}
	return &child, nil
}

func (r *childRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserChild, error) {
	var children []*models.UserChild
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("birth_date ASC").
		Find(&children).Error
	return children, err
}

func (r *childRepository) Update(ctx context.Context, child *models.UserChild) error {
	return r.db.WithContext(ctx).Save(child).Error
}

func (r *childRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.UserChild{}, "id = ?", id).Error
}
