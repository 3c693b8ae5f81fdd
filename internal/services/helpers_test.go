package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/social-network/backend/internal/database"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "services.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func createUser(t *testing.T, store repository.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, HashedPassword: "x", FirstName: "F", LastName: "L", IsActive: true}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func createPost(t *testing.T, store repository.Store, creator int) *models.Post {
	t.Helper()
	p := &models.Post{Name: "post", Description: "body", Creator: creator}
	require.NoError(t, store.Posts().Create(context.Background(), p))
	return p
}

func countRows(t *testing.T, db *gorm.DB, userID, postID int) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Reaction{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&n).Error)
	return n
}
