package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for two-party chats.
type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	FindByPair(ctx context.Context, a, b uint) (*models.Chat, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Chat, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

var errChatNotFound = models.NewNotFoundError("채팅방을 찾을 수 없습니다.")

// Create stores chat with its pair in ascending order.
func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	chat.FirstID, chat.SecondID = models.OrderedPair(chat.FirstID, chat.SecondID)
	if err := conn(ctx, r.db).Create(chat).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("이미 존재하는 채팅방입니다.")
		}
		return err
	}
	return nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := conn(ctx, r.db).First(&chat, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// FindByPair looks up the chat between a and b in either order.
func (r *chatRepository) FindByPair(ctx context.Context, a, b uint) (*models.Chat, error) {
	first, second := models.OrderedPair(a, b)
	var chat models.Chat
	err := conn(ctx, r.db).Where("first_id = ? AND second_id = ?", first, second).First(&chat).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, errChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := conn(ctx, r.db).
		Where("first_id = ? OR second_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&chats).Error
	return chats, err
}
