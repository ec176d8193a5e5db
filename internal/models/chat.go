package models

import "time"

// Chat is a two-party conversation. The pair is stored with FirstID < SecondID.
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstID   uint      `gorm:"not null;uniqueIndex:idx_chats_pair" json:"first_id"`
	SecondID  uint      `gorm:"not null;uniqueIndex:idx_chats_pair;index" json:"second_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasParty reports whether userID is one of the two parties.
func (c *Chat) HasParty(userID uint) bool {
	return c.FirstID == userID || c.SecondID == userID
}

// OrderedPair returns the two ids sorted ascending.
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Message is an append-only entry in a chat.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
