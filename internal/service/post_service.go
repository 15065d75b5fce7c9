package service

import (
	"context"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
)

const (
	maxPostTitleLen   = 200
	maxPostContentLen = 10000
	maxPostImages     = 5
	defaultPageLimit  = 20
	maxPageLimit      = 100
)

// PostService owns the community post catalog.
type PostService struct {
	postRepo      repository.PostRepository
	categoryRepo  repository.CategoryRepository
	searchLogRepo repository.SearchLogRepository
	isStaff       func(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CreatePostInput carries a new post.
type CreatePostInput struct {
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	PostType    string
	Title       string
	Content     string
	IsAnonymous bool
	ImageURLs   []string
}

// UpdatePostInput carries a post edit. Nil fields are left untouched.
type UpdatePostInput struct {
	UserID     uuid.UUID
	PostID     uuid.UUID
	Title      *string
	Content    *string
	CategoryID *uuid.UUID
}

// ListPostsInput carries catalog filters.
type ListPostsInput struct {
	PostType   string
	CategoryID *uuid.UUID
	Search     string
	Sort       string
	Page       int
	Limit      int

	// Analytics context for search logging.
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
}

// PostPage is one page of the catalog.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	searchLogRepo repository.SearchLogRepository,
	isStaff func(ctx context.Context, userID uuid.UUID) (bool, error),
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		categoryRepo:  categoryRepo,
		searchLogRepo: searchLogRepo,
		isStaff:       isStaff,
	}
}

// CreatePost validates and writes a new post in published state.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !models.ValidPostType(in.PostType) {
		return nil, models.NewValidationError("Unknown post type")
	}
	if in.Title == "" || len(in.Title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title is required (max 200 characters)")
	}
	if in.Content == "" || len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content is required (max 10000 characters)")
	}
	if len(in.ImageURLs) > maxPostImages {
		return nil, models.NewValidationError("A post can carry at most 5 images")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, models.NewValidationError("Category is not active")
	}

	post := &models.Post{
		UserID:      in.UserID,
		CategoryID:  in.CategoryID,
		PostType:    in.PostType,
		Title:       in.Title,
		Content:     in.Content,
		Status:      models.PostStatusPublished,
		IsAnonymous: in.IsAnonymous,
	}
	for i, url := range in.ImageURLs {
		post.Images = append(post.Images, models.PostImage{ImageURL: url, Position: i})
	}

	// Questions start unsolved; other post types never carry the flag.
	if in.PostType == models.PostTypeQuestion {
		solved := false
		post.IsSolved = &solved
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns one post and counts the read. Every fetch bumps the view
// counter, the author's own reads included.
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	post.ViewCount++
	return post, nil
}

// ListPosts returns a catalog page. A non-empty search term is recorded in
// the search log with its result count.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	if in.PostType != "" && !models.ValidPostType(in.PostType) {
		return nil, models.NewValidationError("Unknown post type")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	posts, total, err := s.postRepo.List(ctx, repository.ListPostsQuery{
		PostType:   in.PostType,
		CategoryID: in.CategoryID,
		Search:     in.Search,
		Sort:       in.Sort,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	if in.Search != "" && s.searchLogRepo != nil {
		// Logging is best-effort; a failed analytics row never fails the read.
		_ = s.searchLogRepo.Create(ctx, &models.SearchLog{
			UserID:       in.UserID,
			Query:        in.Search,
			SearchType:   models.SearchTypePosts,
			ResultsCount: int(total),
			IPAddress:    in.IPAddress,
			UserAgent:    in.UserAgent,
		})
	}

	return &PostPage{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// UpdatePost edits a post. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		if *in.Title == "" || len(*in.Title) > maxPostTitleLen {
			return nil, models.NewValidationError("Title is required (max 200 characters)")
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" || len(*in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content is required (max 10000 characters)")
		}
		post.Content = *in.Content
	}
	if in.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.IsActive {
			return nil, models.NewValidationError("Category is not active")
		}
		post.CategoryID = *in.CategoryID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. The author may always delete; staff may delete
// anyone's.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		if s.isStaff == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		staff, err := s.isStaff(ctx, userID)
		if err != nil {
			return err
		}
		if !staff {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.SoftDelete(ctx, postID)
}

// MarkSolved toggles the solved flag on a question. Only the question's
// author may mark it.
func (s *PostService) MarkSolved(ctx context.Context, userID, postID uuid.UUID, solved bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("Only the author can mark a question solved")
	}
	if post.PostType != models.PostTypeQuestion {
		return nil, models.NewValidationError("Only questions can be marked solved")
	}

	if err := s.postRepo.SetSolved(ctx, postID, solved); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}
