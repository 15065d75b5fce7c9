package service

import (
	"context"
	"errors"
	"testing"

	"mafather/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_ToggleLike_Likes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	postID := uuid.New()

	added := false
	likeRepo := noopLikeRepo()
	likeRepo.addFn = func(_ context.Context, _ uuid.UUID, _ models.LikeTarget) error {
		added = true
		return nil
	}
	likeRepo.countForTargetFn = func(context.Context, models.LikeTarget) (int64, error) {
		return 1, nil
	}

	svc := NewEngagementService(likeRepo, noopPostRepo(), noopCommentRepo())
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: userID,
		Target: models.PostTarget(postID),
	})
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, result.Liked)
	assert.EqualValues(t, 1, result.LikeCount)
}

func TestEngagementService_ToggleLike_Unlikes(t *testing.T) {
	t.Parallel()

	removed := false
	likeRepo := noopLikeRepo()
	likeRepo.existsFn = func(context.Context, uuid.UUID, models.LikeTarget) (bool, error) {
		return true, nil
	}
	likeRepo.removeFn = func(_ context.Context, _ uuid.UUID, _ models.LikeTarget) error {
		removed = true
		return nil
	}

	svc := NewEngagementService(likeRepo, noopPostRepo(), noopCommentRepo())
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: uuid.New(),
		Target: models.PostTarget(uuid.New()),
	})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, result.Liked)
	assert.EqualValues(t, 0, result.LikeCount)
}

func TestEngagementService_ToggleLike_TargetResolution(t *testing.T) {
	t.Parallel()

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(context.Context, uuid.UUID) (*models.Post, error) {
			return nil, models.NewNotFoundError("post")
		}
		svc := NewEngagementService(noopLikeRepo(), postRepo, noopCommentRepo())
		_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
			UserID: uuid.New(),
			Target: models.PostTarget(uuid.New()),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(context.Context, uuid.UUID) (*models.Comment, error) {
			return nil, models.NewNotFoundError("comment")
		}
		svc := NewEngagementService(noopLikeRepo(), noopPostRepo(), commentRepo)
		_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
			UserID: uuid.New(),
			Target: models.CommentTarget(uuid.New()),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("unknown target type", func(t *testing.T) {
		t.Parallel()
		svc := NewEngagementService(noopLikeRepo(), noopPostRepo(), noopCommentRepo())
		_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
			UserID: uuid.New(),
			Target: models.LikeTarget{Type: "story", ID: uuid.New()},
		})
		assertValidationError(t, err)
	})
}

func TestEngagementService_ToggleLike_ConcurrentInsertRace(t *testing.T) {
	t.Parallel()

	// Exists says no, but a concurrent request already inserted the row.
	likeRepo := noopLikeRepo()
	likeRepo.addFn = func(context.Context, uuid.UUID, models.LikeTarget) error {
		return models.NewConflictError("already liked")
	}
	likeRepo.countForTargetFn = func(context.Context, models.LikeTarget) (int64, error) {
		return 1, nil
	}

	svc := NewEngagementService(likeRepo, noopPostRepo(), noopCommentRepo())
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: uuid.New(),
		Target: models.PostTarget(uuid.New()),
	})
	require.NoError(t, err)
	// The row exists after the race, so the state reported is "liked".
	assert.True(t, result.Liked)
	assert.EqualValues(t, 1, result.LikeCount)
}

func TestEngagementService_ToggleLike_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	likeRepo := noopLikeRepo()
	likeRepo.existsFn = func(context.Context, uuid.UUID, models.LikeTarget) (bool, error) {
		return false, repoErr
	}

	svc := NewEngagementService(likeRepo, noopPostRepo(), noopCommentRepo())
	_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{
		UserID: uuid.New(),
		Target: models.PostTarget(uuid.New()),
	})
	assert.ErrorIs(t, err, repoErr)
}
