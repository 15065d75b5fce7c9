package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"mafather/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:    "new@example.com",
		Password: "hashed",
		Name:     "New Parent",
	}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("update last login", func(t *testing.T) {
		at := time.Now().Truncate(time.Second)
		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		assert.Equal(t, at.Unix(), got.LastLogin.Unix())
	})

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, user.ID))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}

// newMockDB wires GORM's postgres dialector onto a sqlmock connection so a
// test can assert the exact SQL a repository emits.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepositoryUpdateLastLoginBypassesUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	user := &models.User{}
	user.ID = mustUUID(t)
	at := time.Now()

	// UpdateColumn must touch only last_login, never updated_at.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "last_login"=$1 WHERE id = $2 AND "users"."deleted_at" IS NULL`)).
		WithArgs(at, user.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateLastLogin(context.Background(), user.ID, at))
	require.NoError(t, mock.ExpectationsWereMet())
}
