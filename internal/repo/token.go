package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kripesh01/admin-rbac/internal/models"
)

// RecordToken persists a ledger row for a freshly issued refresh token.
// Issuance must be reported as failed when this errors; revocation depends
// on the row existing.
func (r *GormRepo) RecordToken(ctx context.Context, jti, token string, userID uint, expiresAt time.Time) error {
	row := models.UserToken{
		Token:     token,
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

func (r *GormRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("jti = ? AND is_blacklisted = ?", jti, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BlacklistToken revokes a jti. Revocation is monotonic: a jti that was
// never issued or is already blacklisted yields ErrTokenNotFound so the
// caller can signal a client error instead of silently succeeding.
func (r *GormRepo) BlacklistToken(ctx context.Context, jti string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("jti = ? AND is_blacklisted = ?", jti, false).
		Updates(map[string]any{"is_blacklisted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// MatchToken confirms a jti was issued to userID and is not blacklisted,
// defending against token substitution across accounts.
func (r *GormRepo) MatchToken(ctx context.Context, jti string, userID uint) (*models.UserToken, error) {
	var row models.UserToken
	err := r.DB.WithContext(ctx).
		Where("jti = ? AND user_id = ? AND is_blacklisted = ?", jti, userID, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &row, nil
}
