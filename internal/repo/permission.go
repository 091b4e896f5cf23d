package repo

import (
	"context"

	"github.com/kripesh01/admin-rbac/internal/models"
)

// PermissionItem and PermissionGroup mirror the wire shape permissions are
// always surfaced in: grouped by module, module id ascending then
// permission id ascending.
type PermissionItem struct {
	PermissionID   uint   `json:"permission_id"`
	PermissionName string `json:"permission_name"`
}

type PermissionGroup struct {
	ModuleID    uint             `json:"module_id"`
	ModuleName  string           `json:"module_name"`
	Permissions []PermissionItem `json:"permissions"`
}

// ModulePermissions is the name-only grouping used in the login response.
type ModulePermissions struct {
	ModuleName  string   `json:"module_name"`
	Permissions []string `json:"permissions"`
}

type permissionRow struct {
	RoleID         uint
	ModuleID       uint
	ModuleName     string
	PermissionID   uint
	PermissionName string
}

func (r *GormRepo) permissionRows(ctx context.Context, roleIDs []uint) ([]permissionRow, error) {
	var rows []permissionRow
	err := r.DB.WithContext(ctx).
		Table("user_role_permissions").
		Select("user_role_permissions.role_id AS role_id, " +
			"modules.id AS module_id, modules.name AS module_name, " +
			"permissions.id AS permission_id, permissions.name AS permission_name").
		Joins("JOIN permissions ON permissions.id = user_role_permissions.permission_id").
		Joins("JOIN modules ON modules.id = permissions.module_id").
		Where("user_role_permissions.role_id IN ?", roleIDs).
		Where("user_role_permissions.is_deleted = ?", false).
		Where("permissions.is_deleted = ?", false).
		Where("modules.is_deleted = ?", false).
		Order("modules.id ASC, permissions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PermissionGroupsForRoles resolves the granted permissions of several roles
// at once, grouped by module per role. Used by role listings.
func (r *GormRepo) PermissionGroupsForRoles(ctx context.Context, roleIDs []uint) (map[uint][]PermissionGroup, error) {
	out := make(map[uint][]PermissionGroup, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	rows, err := r.permissionRows(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		groups := out[row.RoleID]
		if n := len(groups); n == 0 || groups[n-1].ModuleID != row.ModuleID {
			groups = append(groups, PermissionGroup{
				ModuleID:   row.ModuleID,
				ModuleName: row.ModuleName,
			})
		}
		last := &groups[len(groups)-1]
		last.Permissions = append(last.Permissions, PermissionItem{
			PermissionID:   row.PermissionID,
			PermissionName: row.PermissionName,
		})
		out[row.RoleID] = groups
	}
	return out, nil
}

func (r *GormRepo) PermissionGroupsForRole(ctx context.Context, roleID uint) ([]PermissionGroup, error) {
	m, err := r.PermissionGroupsForRoles(ctx, []uint{roleID})
	if err != nil {
		return nil, err
	}
	return m[roleID], nil
}

// ModulePermissionNames reshapes a role's grants to the login response
// format, keeping the stable module/permission order.
func (r *GormRepo) ModulePermissionNames(ctx context.Context, roleID uint) ([]ModulePermissions, error) {
	groups, err := r.PermissionGroupsForRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	out := make([]ModulePermissions, 0, len(groups))
	for _, g := range groups {
		names := make([]string, 0, len(g.Permissions))
		for _, p := range g.Permissions {
			names = append(names, p.PermissionName)
		}
		out = append(out, ModulePermissions{ModuleName: g.ModuleName, Permissions: names})
	}
	return out, nil
}

// PermissionNames is the flat set consulted by the authorization gate.
func (r *GormRepo) PermissionNames(ctx context.Context, roleID uint) ([]string, error) {
	var names []string
	err := r.DB.WithContext(ctx).
		Table("user_role_permissions").
		Select("permissions.name").
		Joins("JOIN permissions ON permissions.id = user_role_permissions.permission_id").
		Where("user_role_permissions.role_id = ?", roleID).
		Where("user_role_permissions.is_deleted = ?", false).
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// PermissionIDsForRole lists the permission ids a role currently holds,
// used to cap what a non-superuser may grant onward.
func (r *GormRepo) PermissionIDsForRole(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.RolePermission{}).
		Select("permission_id").
		Where("role_id = ? AND is_deleted = ?", roleID, false).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type PermissionFilter struct {
	Name     string
	IsActive *bool

	Offset int
	Limit  int
}

// PermissionWithModule is the catalog listing row.
type PermissionWithModule struct {
	models.Permission
	ModuleName string `json:"module_name"`
}

func (r *GormRepo) ListPermissions(ctx context.Context, f PermissionFilter) ([]PermissionWithModule, int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Permission{}).
		Select("permissions.*, modules.name AS module_name").
		Joins("JOIN modules ON modules.id = permissions.module_id").
		Where("permissions.is_deleted = ?", false).
		Where("modules.is_deleted = ?", false)

	if f.Name != "" {
		q = q.Where("lower(permissions.name) LIKE ?", contains(f.Name))
	}
	if f.IsActive != nil {
		q = q.Where("permissions.is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var perms []PermissionWithModule
	err := q.Order("modules.id ASC, permissions.id ASC").
		Offset(f.Offset).Limit(f.Limit).
		Scan(&perms).Error
	if err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

func (r *GormRepo) FindPermissionByID(ctx context.Context, id uint) (*models.Permission, error) {
	var perm models.Permission
	err := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Where("id = ?", id).
		First(&perm).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &perm, nil
}

func (r *GormRepo) PermissionExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Permission{}).
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

func (r *GormRepo) CreatePermission(ctx context.Context, p *models.Permission) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SavePermission(ctx context.Context, p *models.Permission) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) SoftDeletePermission(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Permission{}).
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

func (r *GormRepo) FindModuleByID(ctx context.Context, id uint) (*models.Module, error) {
	var mod models.Module
	err := r.DB.WithContext(ctx).
		Scopes(models.NotDeleted).
		Where("id = ?", id).
		First(&mod).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &mod, nil
}
