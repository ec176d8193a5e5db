package models

import "time"

// ParticipantStatus is the decision state of an application to a post.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantRejected ParticipantStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantPending, ParticipantAccepted, ParticipantRejected:
		return true
	}
	return false
}

// Participant links an applicant to a post. Only accepted participants may
// read or write the post's comments.
type Participant struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;uniqueIndex:idx_participant_user_post" json:"user_id"`
	PostID    uint              `gorm:"not null;uniqueIndex:idx_participant_user_post;index" json:"post_id"`
	Status    ParticipantStatus `gorm:"size:20;not null;default:pending" json:"status"`
	User      User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsAccepted reports whether the participant may take part in the discussion.
func (p *Participant) IsAccepted() bool {
	return p.Status == ParticipantAccepted
}
