// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered member. Rows are never removed; deletion sets
// DeletedAt and default-scoped queries skip the row from then on.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"size:255;not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Nickname    string         `gorm:"size:50;not null" json:"nickname"`
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// UserState is the lifecycle state of a user, derived from the single
// deleted_at column so the flag and the timestamp cannot disagree.
type UserState struct {
	Deleted   bool
	DeletedAt time.Time
}

// IsActive reports whether the user has not been withdrawn.
func (s UserState) IsActive() bool {
	return !s.Deleted
}

// State returns the lifecycle state of the user.
func (u *User) State() UserState {
	if u.DeletedAt.Valid {
		return UserState{Deleted: true, DeletedAt: u.DeletedAt.Time}
	}
	return UserState{}
}

// PublicProfile is the subset of user fields returned to the owner.
type PublicProfile struct {
	UserID      uint   `json:"userId"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	Description string `json:"description,omitempty"`
}

// Profile returns the public profile of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		UserID:      u.ID,
		Email:       u.Email,
		Nickname:    u.Nickname,
		Description: u.Description,
	}
}
