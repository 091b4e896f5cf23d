package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kripesh01/admin-rbac/internal/models"
)

// FindActiveAPIKey matches a presented opaque key against active,
// non-deleted api_keys rows.
func (r *GormRepo) FindActiveAPIKey(ctx context.Context, key string) (*models.ApiKey, error) {
	var apiKey models.ApiKey
	err := r.DB.WithContext(ctx).
		Scopes(models.Active).
		Where("key = ?", key).
		First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &apiKey, nil
}

func (r *GormRepo) CreateAPIKey(ctx context.Context, k *models.ApiKey) error {
	return r.DB.WithContext(ctx).Create(k).Error
}
