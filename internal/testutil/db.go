// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"togather/internal/database"
	"togather/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database. The pool holds a
// single connection so every query, including those inside transactions,
// sees the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// CreateUser inserts an active user with the given email.
func CreateUser(t *testing.T, db *gorm.DB, email, nickname string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "hashed", Nickname: nickname}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a post authored by userID.
func CreatePost(t *testing.T, db *gorm.DB, userID uint, postType string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: userID, Type: postType, Title: "title", Content: "content"}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateParticipant inserts a participant with the given status.
func CreateParticipant(t *testing.T, db *gorm.DB, userID, postID uint, status models.ParticipantStatus) *models.Participant {
	t.Helper()
	p := &models.Participant{UserID: userID, PostID: postID, Status: status}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateChat inserts a chat between a and b.
func CreateChat(t *testing.T, db *gorm.DB, a, b uint) *models.Chat {
	t.Helper()
	first, second := models.OrderedPair(a, b)
	c := &models.Chat{FirstID: first, SecondID: second}
	require.NoError(t, db.Create(c).Error)
	return c
}
