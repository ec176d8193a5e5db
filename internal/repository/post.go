package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// PostFilter selects one page of posts.
type PostFilter struct {
	Type   string
	Offset int
	Limit  int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

var errPostNotFound = models.NewNotFoundError("해당 게시물을 찾을 수 없습니다.")

// withAuthor preloads the author even after withdrawal so the nickname stays
// visible on old posts.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Unscoped()
	})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return conn(ctx, r.db).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withAuthor(conn(ctx, r.db)).First(&post, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts, newest first, and the number of posts
// matching the filter regardless of paging.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	scoped := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.Post{})
		if filter.Type != "" {
			q = q.Where("type = ?", filter.Type)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := withAuthor(scoped()).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := conn(ctx, r.db).Model(&models.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errPostNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errPostNotFound
	}
	return nil
}
