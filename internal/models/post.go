package models

import (
	"time"
)

// Post is a recruiting post authored by one user. Only the author may change
// or remove it.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Type      string    `gorm:"size:30;not null;index" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSummary is a post row annotated with the author's nickname.
type PostSummary struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	AuthorNickname string    `json:"nickname"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Summary flattens the post and its preloaded author.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:             p.ID,
		UserID:         p.UserID,
		AuthorNickname: p.User.Nickname,
		Type:           p.Type,
		Title:          p.Title,
		Content:        p.Content,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
