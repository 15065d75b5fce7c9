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

// ListPostsQuery carries the filters and paging for the post catalog.
type ListPostsQuery struct {
	PostType   string
	CategoryID *uuid.UUID
	Search     string
	Sort       string // "latest", "popular", "views"
	Page       int
	Limit      int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, q ListPostsQuery) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	SetSolved(ctx context.Context, id uuid.UUID, solved bool) error
	SyncLikeCount(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]any{"post_id": post.ID})
	cache.InvalidatePostsList(ctx)
	return nil
}

// GetByID reads one post with its associations, through the cache. Every
// write path invalidates PostKey, so hits only go stale for counter churn
// already covered by the TTL.
func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return cache.CacheAside(ctx, cache.PostKey(id), cache.PostTTL, func() (*models.Post, error) {
		var post models.Post
		err := r.db.WithContext(ctx).
			Preload("User").
			Preload("Category").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			First(&post, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("post")
			}
			return nil, err
		}
		return &post, nil
	})
}

// postPage is the cached shape of one catalog page.
type postPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

func (r *postRepository) List(ctx context.Context, q ListPostsQuery) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list", "posts")()

	// Search results are never cached; catalog pages are, with write
	// invalidation from Create/Update/SoftDelete. Counter churn from likes
	// and comments only ages out with the TTL.
	if q.Search == "" {
		categoryID := ""
		if q.CategoryID != nil {
			categoryID = q.CategoryID.String()
		}
		key := cache.PostsListKey(q.PostType, categoryID, q.Sort, q.Page, q.Limit)
		page, err := cache.CacheAside(ctx, key, cache.PostTTL, func() (*postPage, error) {
			posts, total, err := r.list(ctx, q)
			if err != nil {
				return nil, err
			}
			return &postPage{Posts: posts, Total: total}, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Posts, page.Total, nil
	}
	return r.list(ctx, q)
}

func (r *postRepository) list(ctx context.Context, q ListPostsQuery) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished)

	if q.PostType != "" {
		base = base.Where("post_type = ?", q.PostType)
	}
	if q.CategoryID != nil {
		base = base.Where("category_id = ?", *q.CategoryID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.applySort(base, q.Sort).
		Preload("User").
		Preload("Category").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applySort orders results with pinned posts always first, then the requested
// sort within each group.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popular":
		return db.Order("is_pinned DESC, like_count DESC, created_at DESC")
	case "views":
		return db.Order("is_pinned DESC, view_count DESC, created_at DESC")
	default: // "latest" and anything unrecognized
		return db.Order("is_pinned DESC, created_at DESC")
	}
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "update", map[string]any{"post_id": post.ID})
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.log.LogWrite(ctx, "delete", map[string]any{"post_id": id})
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidatePostsList(ctx)
	return nil
}

// IncrementViewCount bumps the denormalized view counter. Unlike like_count
// and comment_count it is a plain increment, not a recount, and it bypasses
// updated_at.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err == nil {
		observability.PostViewsTotal.Inc()
		cache.Invalidate(ctx, cache.PostKey(id))
	}
	return err
}

func (r *postRepository) SetSolved(ctx context.Context, id uuid.UUID, solved bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_solved", solved).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(id))
	}
	return err
}

// SyncLikeCount rewrites posts.like_count from a full recount of the likes
// ledger. Used by maintenance paths; the like repository performs the same
// recount inside its toggle transactions.
func (r *postRepository) SyncLikeCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recountTargetLikes(tx, models.PostTarget(id))
	})
}
