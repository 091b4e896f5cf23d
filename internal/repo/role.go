package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kripesh01/admin-rbac/internal/models"
)

type RoleFilter struct {
	Name         string
	IsActive     *bool
	DepartmentID *uint

	Offset int
	Limit  int
}

func (r *GormRepo) ListRoles(ctx context.Context, f RoleFilter) ([]models.UserRole, int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.UserRole{}).
		Scopes(models.NotDeleted)

	if f.DepartmentID != nil {
		q = q.Where("department_id = ?", *f.DepartmentID)
	}
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

	var roles []models.UserRole
	if err := q.Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// FindRoleByID optionally scopes the lookup to a department; roles are
// never shared cross-department.
func (r *GormRepo) FindRoleByID(ctx context.Context, id uint, departmentID *uint) (*models.UserRole, error) {
	q := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Where("id = ?", id)
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}

	var role models.UserRole
	if err := q.First(&role).Error; err != nil {
		return nil, notFound(err)
	}
	return &role, nil
}

func (r *GormRepo) RoleExistsByName(ctx context.Context, name string, departmentID uint, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("name = ? AND department_id = ? AND is_deleted = ?", name, departmentID, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateRole inserts the role and its initial grants in one transaction;
// a failed grant insert leaves no half-created role behind.
func (r *GormRepo) CreateRole(ctx context.Context, role *models.UserRole, permissionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return createGrants(tx, role.ID, permissionIDs)
	})
}

// UpdateRole saves the role row and replaces its grant set atomically:
// current grants are soft-deleted and the new set inserted, so a partial
// failure rolls back to the old grants intact.
func (r *GormRepo) UpdateRole(ctx context.Context, role *models.UserRole, permissionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		if err := softDeleteGrants(tx, role.ID); err != nil {
			return err
		}
		return createGrants(tx, role.ID, permissionIDs)
	})
}

// SoftDeleteRole marks the role and all its grants deleted in one
// transaction.
func (r *GormRepo) SoftDeleteRole(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserRole{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(models.SoftDeleteValues())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return softDeleteGrants(tx, id)
	})
}

func softDeleteGrants(tx *gorm.DB, roleID uint) error {
	return tx.Model(&models.RolePermission{}).
		Where("role_id = ? AND is_deleted = ?", roleID, false).
		Updates(models.SoftDeleteValues()).Error
}

func createGrants(tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	grants := make([]models.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		grants = append(grants, models.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return tx.Create(&grants).Error
}
