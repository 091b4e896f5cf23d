package repo

import (
	"context"
	"strings"
	"time"

	"github.com/kripesh01/admin-rbac/internal/models"
)

// FindUserByPhone looks up a non-deleted user for credential verification.
// Role and department ride along for the login response.
func (r *GormRepo) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Preload("Role").
		Preload("Department").
		Where("phone = ?", phone).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByID re-reads the user row for the access guard. Soft-deleted
// users are treated as missing; the caller still checks is_active.
func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) UpdateUserPassword(ctx context.Context, id uint, hashed string) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password": hashed, "updated_at": time.Now()}).Error
}

type UserFilter struct {
	Name         string
	Email        string
	Phone        string
	RoleID       uint
	IsActive     *bool
	DepartmentID *uint

	Offset int
	Limit  int
}

func (r *GormRepo) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Scopes(models.NotDeleted).
		Preload("Role").
		Preload("Department")

	if f.DepartmentID != nil {
		q = q.Where("department_id = ?", *f.DepartmentID)
	}
	if f.Name != "" {
		q = q.Where("lower(name) LIKE ?", contains(f.Name))
	}
	if f.Email != "" {
		q = q.Where("lower(email) LIKE ?", contains(f.Email))
	}
	if f.Phone != "" {
		q = q.Where("phone LIKE ?", "%"+f.Phone+"%")
	}
	if f.RoleID != 0 {
		q = q.Where("role_id = ?", f.RoleID)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := q.Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UserExistsByContact reports whether a non-deleted user already claims the
// phone or email, excluding excludeID (0 means no exclusion).
func (r *GormRepo) UserExistsByContact(ctx context.Context, phone string, email *string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Scopes(models.NotDeleted)

	if email != nil && *email != "" {
		q = q.Where("phone = ? OR email = ?", phone, *email)
	} else {
		q = q.Where("phone = ?", phone)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) SoftDeleteUser(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
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

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
