package service

import (
	"context"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
)

const maxCommentLen = 1000

// CommentService owns the comment tree under posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isStaff     func(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CreateCommentInput carries a new comment or reply.
type CreateCommentInput struct {
	UserID      uuid.UUID
	PostID      uuid.UUID
	Content     string
	ParentID    *uuid.UUID
	IsAnonymous bool
}

// UpdateCommentInput carries a content edit.
type UpdateCommentInput struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
	Content   string
}

// DeleteCommentInput identifies a comment to remove.
type DeleteCommentInput struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isStaff func(ctx context.Context, userID uuid.UUID) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isStaff:     isStaff,
	}
}

// CreateComment writes a top-level comment or a reply. Only one level of
// nesting exists: replying to a reply is rejected outright rather than being
// silently reattached to the thread root.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:      in.UserID,
		PostID:      in.PostID,
		Content:     in.Content,
		IsAnonymous: in.IsAnonymous,
		Depth:       models.DepthTopLevel,
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if !parent.IsTopLevel() {
			return nil, models.NewValidationError("Replies to replies are not allowed")
		}
		comment.ParentID = in.ParentID
		comment.Depth = models.DepthReply
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetComment returns a single comment. Top-level comments come back with
// their reply thread.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.commentRepo.GetWithReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("comment")
	}
	return comment, nil
}

// ListComments returns the post's comment tree: top-level comments in
// creation order with replies nested.
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// UpdateComment edits the comment's content. Only the author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. The author may always delete; staff may
// delete anyone's.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		if s.isStaff == nil {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
		staff, err := s.isStaff(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.SoftDelete(ctx, in.CommentID, comment.PostID); err != nil {
		return nil, err
	}

	return comment, nil
}
