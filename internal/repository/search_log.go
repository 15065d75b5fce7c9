package repository

import (
	"context"
	"time"

	"mafather/internal/models"

	"gorm.io/gorm"
)

// SearchLogRepository defines the interface for search analytics rows
type SearchLogRepository interface {
	Create(ctx context.Context, log *models.SearchLog) error
	PopularQueries(ctx context.Context, since time.Time, limit int) ([]PopularQuery, error)
}

// PopularQuery is an aggregated search analytics row.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository creates a new search log repository
func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

func (r *searchLogRepository) Create(ctx context.Context, log *models.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *searchLogRepository) PopularQueries(ctx context.Context, since time.Time, limit int) ([]PopularQuery, error) {
	var rows []PopularQuery
	err := r.db.WithContext(ctx).
		Model(&models.SearchLog{}).
		Select("query, COUNT(*) as count").
		Where("created_at > ?", since).
		Group("query").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
