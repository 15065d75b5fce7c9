package repository

import (
	"context"

	"mafather/internal/cache"
	"mafather/internal/database"
	"mafather/internal/models"
	"mafather/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for the engagement ledger
type LikeRepository interface {
	Exists(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error)
	Add(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error
	Remove(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error
	CountForTarget(ctx context.Context, target models.LikeTarget) (int64, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) ([]uuid.UUID, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

func (r *likeRepository) Exists(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, target.ID, target.Type).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a ledger row and rewrites the target's like_count from a full
// recount, both in one transaction. A concurrent duplicate insert trips the
// (user_id, target_id, target_type) unique index and surfaces as a conflict.
func (r *likeRepository) Add(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &models.Like{
			UserID:     userID,
			TargetID:   target.ID,
			TargetType: target.Type,
		}
		if err := tx.Create(like).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return models.NewConflictError("already liked")
			}
			return err
		}
		return recountTargetLikes(tx, target)
	})
	if err != nil {
		return err
	}

	observability.LikeTogglesTotal.WithLabelValues(string(target.Type), "liked").Inc()
	r.log.LogWrite(ctx, "like", map[string]any{
		"user_id":     userID,
		"target_id":   target.ID,
		"target_type": target.Type,
	})
	r.invalidateTarget(ctx, target)
	return nil
}

// Remove hard-deletes the ledger row and rewrites the target's like_count in
// the same transaction.
func (r *likeRepository) Remove(ctx context.Context, userID uuid.UUID, target models.LikeTarget) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND target_id = ? AND target_type = ?", userID, target.ID, target.Type).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return recountTargetLikes(tx, target)
	})
	if err != nil {
		return err
	}

	observability.LikeTogglesTotal.WithLabelValues(string(target.Type), "unliked").Inc()
	r.log.LogWrite(ctx, "unlike", map[string]any{
		"user_id":     userID,
		"target_id":   target.ID,
		"target_type": target.Type,
	})
	r.invalidateTarget(ctx, target)
	return nil
}

func (r *likeRepository) CountForTarget(ctx context.Context, target models.LikeTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_id = ? AND target_type = ?", target.ID, target.Type).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var liked []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, models.TargetPost, postIDs).
		Pluck("target_id", &liked).Error
	return liked, err
}

func (r *likeRepository) invalidateTarget(ctx context.Context, target models.LikeTarget) {
	if target.Type == models.TargetPost {
		cache.Invalidate(ctx, cache.PostKey(target.ID))
	}
}

// recountTargetLikes rewrites the denormalized like_count on the target row
// from a full count of the ledger. UpdateColumn bypasses updated_at so a like
// never masquerades as a content edit.
func recountTargetLikes(tx *gorm.DB, target models.LikeTarget) error {
	var count int64
	if err := tx.Model(&models.Like{}).
		Where("target_id = ? AND target_type = ?", target.ID, target.Type).
		Count(&count).Error; err != nil {
		return err
	}

	switch target.Type {
	case models.TargetPost:
		return tx.Model(&models.Post{}).
			Where("id = ?", target.ID).
			UpdateColumn("like_count", count).Error
	case models.TargetComment:
		return tx.Model(&models.Comment{}).
			Where("id = ?", target.ID).
			UpdateColumn("like_count", count).Error
	default:
		return models.NewValidationError("unknown like target type")
	}
}
