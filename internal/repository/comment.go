package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListPage(ctx context.Context, postID, beforeID uint, limit int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	DeleteByPost(ctx context.Context, postID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

var errCommentNotFound = models.NewNotFoundError("해당 댓글을 찾을 수 없습니다.")

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return conn(ctx, r.db).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := conn(ctx, r.db).First(&comment, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListPage returns up to limit comments on postID, newest first. A non-zero
// beforeID restricts the page to comments older than that comment; ids grow
// with creation time, so id order matches (created_at, id) order.
func (r *commentRepository) ListPage(ctx context.Context, postID, beforeID uint, limit int) ([]models.Comment, error) {
	query := conn(ctx, r.db).
		Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Where("post_id = ?", postID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var comments []models.Comment
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	result := conn(ctx, r.db).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errCommentNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errCommentNotFound
	}
	return nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID uint) error {
	return conn(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
