// Package repository provides the entity access layer: narrow CRUD over GORM,
// one repository per entity.
package repository

import (
	"context"
	"errors"
	"strings"

	"togather/internal/database"

	"gorm.io/gorm"
)

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	return database.Conn(ctx, db)
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueConstraintError matches PostgreSQL SQLSTATE 23505 and SQLite's
// UNIQUE constraint failure.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
