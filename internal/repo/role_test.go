package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kripesh01/admin-rbac/internal/models"
)

func TestUpdateRole_ReplacesGrantsAtomically(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	roleID := seedCatalog(t, r)

	role, err := r.FindRoleByID(ctx, roleID, nil)
	require.NoError(t, err)

	var target models.Permission
	require.NoError(t, r.DB.Where("name = ?", "list_role").First(&target).Error)

	role.Name = "auditor"
	require.NoError(t, r.UpdateRole(ctx, role, []uint{target.ID}))

	names, err := r.PermissionNames(ctx, roleID)
	require.NoError(t, err)
	assert.Equal(t, []string{"list_role"}, names)

	// Replaced grants are soft-deleted, not removed.
	var retired int64
	require.NoError(t, r.DB.Model(&models.RolePermission{}).
		Where("role_id = ? AND is_deleted = ?", roleID, true).
		Count(&retired).Error)
	assert.GreaterOrEqual(t, retired, int64(3))

	updated, err := r.FindRoleByID(ctx, roleID, nil)
	require.NoError(t, err)
	assert.Equal(t, "auditor", updated.Name)
}

func TestUpdateRole_EmptySetClearsGrants(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	roleID := seedCatalog(t, r)

	role, err := r.FindRoleByID(ctx, roleID, nil)
	require.NoError(t, err)

	require.NoError(t, r.UpdateRole(ctx, role, nil))

	names, err := r.PermissionNames(ctx, roleID)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSoftDeleteRole_RetiresRoleAndGrants(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	roleID := seedCatalog(t, r)

	require.NoError(t, r.SoftDeleteRole(ctx, roleID))

	_, err := r.FindRoleByID(ctx, roleID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := r.PermissionNames(ctx, roleID)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Deleting an already-deleted role is NotFound.
	assert.ErrorIs(t, r.SoftDeleteRole(ctx, roleID), ErrNotFound)
}

func TestFindRoleByID_DepartmentScoped(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	roleID := seedCatalog(t, r)

	other := models.Department{Name: "finance"}
	require.NoError(t, r.DB.Create(&other).Error)

	_, err := r.FindRoleByID(ctx, roleID, &other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoleExistsByName_PerDepartment(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	roleID := seedCatalog(t, r)

	role, err := r.FindRoleByID(ctx, roleID, nil)
	require.NoError(t, err)

	exists, err := r.RoleExistsByName(ctx, "manager", role.DepartmentID, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// Excluding the role itself, the name is free.
	exists, err = r.RoleExistsByName(ctx, "manager", role.DepartmentID, role.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Same name in another department does not collide.
	exists, err = r.RoleExistsByName(ctx, "manager", role.DepartmentID+1, 0)
	require.NoError(t, err)
	assert.False(t, exists)
}
