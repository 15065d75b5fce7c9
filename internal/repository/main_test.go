package repository

import (
	"testing"
	"time"

	"mafather/internal/database"
	"mafather/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     "Sleep Questions",
		PostType: models.PostTypeQuestion,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestPost(t *testing.T, db *gorm.DB, user *models.User, category *models.Category) *models.Post {
	t.Helper()

	post := &models.Post{
		UserID:     user.ID,
		CategoryID: category.ID,
		PostType:   category.PostType,
		Title:      "How do I get my baby to sleep?",
		Content:    "She wakes up every two hours.",
		Status:     models.PostStatusPublished,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestChild(t *testing.T, db *gorm.DB, user *models.User) *models.UserChild {
	t.Helper()

	child := &models.UserChild{
		UserID:    user.ID,
		Name:      "Minjun",
		BirthDate: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, db.Create(child).Error)
	return child
}
