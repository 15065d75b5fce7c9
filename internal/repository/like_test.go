package repository

import (
	"context"
	"testing"

	"mafather/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepositoryAddAndRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker@example.com")
	author := createTestUser(t, db, "author@example.com")
	category := createTestCategory(t, db)
	post := createTestPost(t, db, author, category)
	target := models.PostTarget(post.ID)

	t.Run("add writes ledger row and recounts", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, user.ID, target))

		exists, err := repo.Exists(ctx, user.ID, target)
		require.NoError(t, err)
		assert.True(t, exists)

		var got models.Post
		require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
		assert.Equal(t, 1, got.LikeCount)
	})

	t.Run("duplicate add is a conflict", func(t *testing.T) {
		err := repo.Add(ctx, user.ID, target)
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("second user counts independently", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, author.ID, target))

		var got models.Post
		require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
		assert.Equal(t, 2, got.LikeCount)
	})

	t.Run("remove deletes row and recounts", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, user.ID, target))

		exists, err := repo.Exists(ctx, user.ID, target)
		require.NoError(t, err)
		assert.False(t, exists)

		var got models.Post
		require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
		assert.Equal(t, 1, got.LikeCount)
	})

	t.Run("counter never drifts from the ledger", func(t *testing.T) {
		count, err := repo.CountForTarget(ctx, target)
		require.NoError(t, err)

		var got models.Post
		require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
		assert.Equal(t, int(count), got.LikeCount)
	})
}

func TestLikeRepositoryCommentTarget(t *testing.T) {
	db := newTestDB(t)
	likeRepo := NewLikeRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user@example.com")
	category := createTestCategory(t, db)
	post := createTestPost(t, db, user, category)

	comment := &models.Comment{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: "Try a consistent bedtime routine.",
	}
	require.NoError(t, commentRepo.Create(ctx, comment))

	target := models.CommentTarget(comment.ID)
	require.NoError(t, likeRepo.Add(ctx, user.ID, target))

	var got models.Comment
	require.NoError(t, db.First(&got, "id = ?", comment.ID).Error)
	assert.Equal(t, 1, got.LikeCount)

	// A like on a comment must not touch the post's like counter.
	var gotPost models.Post
	require.NoError(t, db.First(&gotPost, "id = ?", post.ID).Error)
	assert.Equal(t, 0, gotPost.LikeCount)
}

func TestLikeRepositoryLikedPostIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user@example.com")
	category := createTestCategory(t, db)
	liked := createTestPost(t, db, user, category)
	notLiked := createTestPost(t, db, user, category)

	require.NoError(t, repo.Add(ctx, user.ID, models.PostTarget(liked.ID)))

	ids, err := repo.LikedPostIDs(ctx, user.ID, []uuid.UUID{liked.ID, notLiked.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{liked.ID}, ids)
}
