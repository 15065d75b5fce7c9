// Package service contains the application's business logic.
package service

import (
	"context"

	"mafather/internal/models"
	"mafather/internal/repository"

	"github.com/google/uuid"
)

// EngagementService owns the like toggle over posts and comments.
type EngagementService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// ToggleLikeInput identifies who is toggling and what.
type ToggleLikeInput struct {
	UserID uuid.UUID
	Target models.LikeTarget
}

// ToggleLikeResult reports the state after the toggle.
type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) *EngagementService {
	return &EngagementService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ToggleLike flips the caller's like on the target. A first call likes, a
// second call un-likes; the target's counter is recounted inside the same
// transaction as the ledger write, so a crash can never leave them apart.
func (s *EngagementService) ToggleLike(ctx context.Context, in ToggleLikeInput) (*ToggleLikeResult, error) {
	if !models.ValidTargetType(in.Target.Type) {
		return nil, models.NewValidationError("unknown like target type")
	}

	if err := s.resolveTarget(ctx, in.Target); err != nil {
		return nil, err
	}

	exists, err := s.likeRepo.Exists(ctx, in.UserID, in.Target)
	if err != nil {
		return nil, err
	}

	liked := !exists
	if exists {
		err = s.likeRepo.Remove(ctx, in.UserID, in.Target)
	} else {
		err = s.likeRepo.Add(ctx, in.UserID, in.Target)
		// A concurrent toggle may have inserted first. Either way the state
		// after this call is "liked", so the conflict is not an error.
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeConflict {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountForTarget(ctx, in.Target)
	if err != nil {
		return nil, err
	}

	return &ToggleLikeResult{Liked: liked, LikeCount: count}, nil
}

// IsLiked reports whether the user currently likes the target.
func (s *EngagementService) IsLiked(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, target)
}

// resolveTarget verifies the target row exists. Each target kind has its own
// lookup; there is no foreign key behind the ledger.
func (s *EngagementService) resolveTarget(ctx context.Context, target models.LikeTarget) error {
	switch target.Type {
	case models.TargetPost:
		_, err := s.postRepo.GetByID(ctx, target.ID)
		return err
	case models.TargetComment:
		_, err := s.commentRepo.GetByID(ctx, target.ID)
		return err
	default:
		return models.NewValidationError("unknown like target type")
	}
}
