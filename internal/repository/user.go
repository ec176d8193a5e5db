package repository

import (
	"context"

	"togather/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users. Every lookup except
// FindByEmailIncludingDeleted skips withdrawn users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailIncludingDeleted(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

var errUserNotFound = models.NewNotFoundError("사용자를 찾을 수 없습니다.")

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("이 이메일은 현재 사용중입니다. 다른 이메일을 입력해 주세요.")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmailIncludingDeleted prefers the active account for email and falls
// back to the most recently created withdrawn one.
func (r *userRepository) FindByEmailIncludingDeleted(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil || !models.IsKind(err, models.CodeNotFound) {
		return user, err
	}

	var withdrawn models.User
	err = conn(ctx, r.db).Unscoped().
		Where("email = ? AND deleted_at IS NOT NULL", email).
		Order("id DESC").
		First(&withdrawn).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &withdrawn, nil
}

// Update applies a partial update to an active user.
func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errUserNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on an active user.
func (r *userRepository) SoftDelete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errUserNotFound
	}
	return nil
}
