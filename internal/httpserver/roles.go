package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/middleware"
	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/transport"
)

type RoleHTTP struct {
	Repo *repo.GormRepo
}

// callerDepartment resolves the department a non-superuser operates in;
// role management requires one.
func callerDepartment(caller *models.User) (uint, error) {
	if caller.DepartmentID == nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "caller has no department")
	}
	return *caller.DepartmentID, nil
}

// canGrant checks that a non-superuser only hands out permissions they hold
// themselves.
func (h *RoleHTTP) canGrant(c echo.Context, caller *models.User, requested []uint) error {
	if caller.IsSuperuser || len(requested) == 0 {
		return nil
	}
	if caller.RoleID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "Permission denied")
	}

	own, err := h.Repo.PermissionIDsForRole(c.Request().Context(), *caller.RoleID)
	if err != nil {
		return err
	}
	held := make(map[uint]struct{}, len(own))
	for _, id := range own {
		held[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := held[id]; !ok {
			return echo.NewHTTPError(http.StatusForbidden, "Permission denied")
		}
	}
	return nil
}

func (h *RoleHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)
	page, limit, offset := pageParams(c)

	f := repo.RoleFilter{
		Name:         c.QueryParam("name"),
		IsActive:     boolQuery(c, "is_active"),
		DepartmentID: departmentScope(caller),
		Offset:       offset,
		Limit:        limit,
	}

	roles, total, err := h.Repo.ListRoles(ctx, f)
	if err != nil {
		return err
	}

	roleIDs := make([]uint, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}
	grants, err := h.Repo.PermissionGroupsForRoles(ctx, roleIDs)
	if err != nil {
		return err
	}

	out := make([]transport.RoleData, 0, len(roles))
	for i := range roles {
		out = append(out, transport.NewRoleData(&roles[i], grants[roles[i].ID]))
	}

	return respond(c, http.StatusOK, "success", transport.RoleListData{
		Pagination: transport.NewPagination(c.Request().URL.Path, page, limit, total),
		Roles:      out,
	})
}

func (h *RoleHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	role, err := h.Repo.FindRoleByID(ctx, id, departmentScope(caller))
	if err != nil {
		return err
	}

	grants, err := h.Repo.PermissionGroupsForRole(ctx, role.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "success", transport.NewRoleData(role, grants))
}

func (h *RoleHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	var req transport.RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var departmentID uint
	if caller.IsSuperuser && req.DepartmentID != nil {
		if _, err := h.Repo.FindDepartmentByID(ctx, *req.DepartmentID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Department not found")
		}
		departmentID = *req.DepartmentID
	} else {
		var err error
		departmentID, err = callerDepartment(caller)
		if err != nil {
			return err
		}
	}

	exists, err := h.Repo.RoleExistsByName(ctx, req.Name, departmentID, 0)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Role exists with this name")
	}

	if err := h.canGrant(c, caller, req.PermissionIDs); err != nil {
		return err
	}

	role := models.UserRole{Name: req.Name, DepartmentID: departmentID, Editable: true}
	if err := h.Repo.CreateRole(ctx, &role, req.PermissionIDs); err != nil {
		return err
	}

	grants, err := h.Repo.PermissionGroupsForRole(ctx, role.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Role created successfully", transport.NewRoleData(&role, grants))
}

func (h *RoleHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	role, err := h.Repo.FindRoleByID(ctx, id, departmentScope(caller))
	if err != nil {
		return err
	}

	exists, err := h.Repo.RoleExistsByName(ctx, req.Name, role.DepartmentID, role.ID)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Role exists with this name")
	}

	if err := h.canGrant(c, caller, req.PermissionIDs); err != nil {
		return err
	}

	role.Name = req.Name
	if err := h.Repo.UpdateRole(ctx, role, req.PermissionIDs); err != nil {
		return err
	}

	grants, err := h.Repo.PermissionGroupsForRole(ctx, role.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Role updated successfully", transport.NewRoleData(role, grants))
}

func (h *RoleHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	role, err := h.Repo.FindRoleByID(ctx, id, departmentScope(caller))
	if err != nil {
		return err
	}

	if err := h.Repo.SoftDeleteRole(ctx, role.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Role deleted successfully", nil)
}
