package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (*models.RefreshToken, error) {
	record := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := r.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// RotateRefreshToken overwrites the stored string and expiry in place. The
// row keeps its identifier and owner; the old string is unusable afterwards.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, record *models.RefreshToken, newToken string, newExpiry time.Time) error {
	record.Token = newToken
	record.ExpiresAt = newExpiry
	return r.DB.WithContext(ctx).Model(record).
		Updates(map[string]any{"token": newToken, "expires_at": newExpiry}).Error
}

func (r *GormRepo) DeleteRefreshToken(ctx context.Context, record *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Delete(record).Error
}

// DeleteRefreshTokenByString is idempotent: revoking an unknown string is
// not an error.
func (r *GormRepo) DeleteRefreshTokenByString(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) DeleteAllRefreshTokens(ctx context.Context, userID string) (int64, error) {
	result := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
