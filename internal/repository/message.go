package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for chat messages.
// Messages are append-only.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByChat(ctx context.Context, chatID uint) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return conn(ctx, r.db).Create(message).Error
}

// ListByChat returns the full history of chatID, oldest first.
func (r *messageRepository) ListByChat(ctx context.Context, chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := conn(ctx, r.db).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}
