package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database named after the test so
// each test gets a fresh schema. The pool is capped at one connection:
// shared-cache in-memory databases live per connection otherwise, and the
// cap also serializes the concurrency tests the way a real server's pool
// would queue them.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	repo := NewCategoryRepository(db)
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func createTestPost(t *testing.T, db *gorm.DB, authorID, categoryID uint, title string, published bool) *models.Post {
	t.Helper()

	repo := NewPostRepository(db)
	post := &models.Post{
		Title:       title,
		Content:     "Content of " + title,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		IsPublished: published,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func appCode(t *testing.T, err error) string {
	t.Helper()

	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	return appErr.Code
}
