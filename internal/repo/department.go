package repo

import (
	"context"

	"github.com/kripesh01/admin-rbac/internal/models"
)

type DepartmentFilter struct {
	Name     string
	IsActive *bool

	Offset int
	Limit  int
}

func (r *GormRepo) ListDepartments(ctx context.Context, f DepartmentFilter) ([]models.Department, int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Department{}).
		Scopes(models.NotDeleted)

	if f.Name != "" {
		q = q.Where("lower(name) LIKE ?", contains(f.Name))
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var departments []models.Department
	if err := q.Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&departments).Error; err != nil {
		return nil, 0, err
	}
	return departments, total, nil
}

func (r *GormRepo) FindDepartmentByID(ctx context.Context, id uint) (*models.Department, error) {
	var dep models.Department
	err := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Where("id = ?", id).
		First(&dep).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &dep, nil
}

func (r *GormRepo) DepartmentExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Department{}).
		Scopes(models.NotDeleted).
		Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateDepartment(ctx context.Context, d *models.Department) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) SaveDepartment(ctx context.Context, d *models.Department) error {
	return r.DB.WithContext(ctx).Save(d).Error
}

func (r *GormRepo) SoftDeleteDepartment(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Department{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(models.SoftDeleteValues())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
