package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

// FindUserByIdentity looks up by exact ID first and falls back to matching
// either username or email. Login accepts any of the three in one field.
func (r *GormRepo) FindUserByIdentity(ctx context.Context, identity string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("id = ?", identity).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identity, identity).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user, converting a username/email collision into
// ErrDuplicateIdentity. The pre-check is a courtesy; the unique constraints
// serialize concurrent duplicate registrations.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	var existing models.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", user.Username, user.Email).
		First(&existing).Error
	if err == nil {
		return ErrDuplicateIdentity
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (r *GormRepo) UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := r.DB.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	return user, nil
}
