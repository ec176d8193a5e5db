package models

import "time"

// MaxCommentLength is the maximum number of characters in a comment.
const MaxCommentLength = 250

// Comment is a message left on a post by an accepted participant.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	PostID    uint      `gorm:"not null;index:idx_comments_post_created" json:"post_id"`
	Content   string    `gorm:"size:250;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_comments_post_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageStatus tags a CommentPage.
type PageStatus string

const (
	// PageStatusMore means older comments remain after this page.
	PageStatusMore PageStatus = "has_more"
	// PageStatusLast means this page reaches the oldest comment.
	PageStatusLast PageStatus = "last"
	// PageStatusExhausted answers a request made after pagination already ended.
	PageStatusExhausted PageStatus = "exhausted"
)

// EndCursor is the cursor value that marks the end of pagination.
const EndCursor int64 = -1

// CommentPage is one page of comments, newest first.
type CommentPage struct {
	Status     PageStatus `json:"status"`
	Comments   []Comment  `json:"comments"`
	NextCursor int64      `json:"nextCursor"`
}
