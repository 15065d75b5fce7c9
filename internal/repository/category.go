package repository

import (
	"context"
	"errors"

	"mafather/internal/cache"
	"mafather/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListActive(ctx context.Context, postType string) ([]*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CategoriesKey())
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("category")
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context, postType string) ([]*models.Category, error) {
	// Only the unfiltered list is cached; per-type views hit the database.
	if postType == "" {
		return cache.CacheAside(ctx, cache.CategoriesKey(), cache.CategoryTTL, func() ([]*models.Category, error) {
			return r.listActive(ctx, "")
		})
	}
	return r.listActive(ctx, postType)
}

func (r *categoryRepository) listActive(ctx context.Context, postType string) ([]*models.Category, error) {
	var categories []*models.Category
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if postType != "" {
		q = q.Where("post_type = ?", postType)
	}
	err := q.Order("post_type ASC, display_order ASC, name ASC").Find(&categories).Error
	return categories, err
}
