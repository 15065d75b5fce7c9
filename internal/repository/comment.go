package repository

import (
	"context"
	"errors"

	"mafather/internal/cache"
	"mafather/internal/models"
	"mafather/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetWithReplies(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, id uuid.UUID, postID uuid.UUID) error
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

// Create inserts the comment and rewrites the post's comment_count from a
// full recount in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recountPostComments(tx, comment.PostID)
	})
	if err != nil {
		return err
	}

	kind := "top_level"
	if comment.ParentID != nil {
		kind = "reply"
	}
	observability.CommentsWrittenTotal.WithLabelValues(kind).Inc()
	r.log.LogWrite(ctx, "create", map[string]any{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
	})
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment")
		}
		return nil, err
	}
	return &comment, nil
}

// GetWithReplies returns a comment with its reply thread preloaded. Replies
// of a reply never exist, so the preload is a no-op for depth-1 rows.
func (r *commentRepository) GetWithReplies(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment")
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns top-level comments in creation order with their replies
// preloaded. Replies are only nested one level so a single preload suffices.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "update", map[string]any{"comment_id": comment.ID})
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}

// SoftDelete removes the comment and rewrites the post's comment_count in the
// same transaction. Replies of a deleted top-level comment stay in place; they
// keep counting until deleted themselves.
func (r *commentRepository) SoftDelete(ctx context.Context, id uuid.UUID, postID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
			return err
		}
		return recountPostComments(tx, postID)
	})
	if err != nil {
		return err
	}

	r.log.LogWrite(ctx, "delete", map[string]any{"comment_id": id, "post_id": postID})
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

// recountPostComments rewrites posts.comment_count from a full count of live
// comment rows. UpdateColumn keeps the post's updated_at untouched.
func recountPostComments(tx *gorm.DB, postID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", count).Error
}
