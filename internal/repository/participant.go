package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// ParticipantRepository defines persistence operations for post applications.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id uint) (*models.Participant, error)
	GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Participant, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Participant, error)
	UpdateStatus(ctx context.Context, id uint, status models.ParticipantStatus) error
	DeleteByPost(ctx context.Context, postID uint) error
}

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository returns a new ParticipantRepository.
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

var errParticipantNotFound = models.NewNotFoundError("해당 id의 신청 정보가 없습니다.")

func (r *participantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.Status == "" {
		participant.Status = models.ParticipantPending
	}
	if err := conn(ctx, r.db).Create(participant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("이미 신청한 게시물입니다.")
		}
		return err
	}
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id uint) (*models.Participant, error) {
	var p models.Participant
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.Participant, error) {
	var p models.Participant
	err := conn(ctx, r.db).Where("user_id = ? AND post_id = ?", userID, postID).First(&p).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, errParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *participantRepository) ListByPost(ctx context.Context, postID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := conn(ctx, r.db).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&participants).Error
	return participants, err
}

func (r *participantRepository) UpdateStatus(ctx context.Context, id uint, status models.ParticipantStatus) error {
	result := conn(ctx, r.db).Model(&models.Participant{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errParticipantNotFound
	}
	return nil
}

func (r *participantRepository) DeleteByPost(ctx context.Context, postID uint) error {
	return conn(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Participant{}).Error
}
