package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/transport"
)

type PermissionHTTP struct {
	Repo *repo.GormRepo
}

func (h *PermissionHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit, offset := pageParams(c)

	f := repo.PermissionFilter{
		Name:     c.QueryParam("name"),
		IsActive: boolQuery(c, "is_active"),
		Offset:   offset,
		Limit:    limit,
	}

	permissions, total, err := h.Repo.ListPermissions(ctx, f)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "success", transport.PermissionListData{
		Pagination:  transport.NewPagination(c.Request().URL.Path, page, limit, total),
		Permissions: permissions,
	})
}

func (h *PermissionHTTP) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	permission, err := h.Repo.FindPermissionByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "success", permission)
}

func (h *PermissionHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.ModuleID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and module_id are required")
	}

	if _, err := h.Repo.FindModuleByID(ctx, req.ModuleID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Module not found")
	}

	exists, err := h.Repo.PermissionExistsByName(ctx, req.Name, 0)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Permission exists with this name")
	}

	permission := models.Permission{Name: req.Name, ModuleID: req.ModuleID}
	if err := h.Repo.CreatePermission(ctx, &permission); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Permission created successfully", permission)
}

func (h *PermissionHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	permission, err := h.Repo.FindPermissionByID(ctx, id)
	if err != nil {
		return err
	}

	exists, err := h.Repo.PermissionExistsByName(ctx, req.Name, permission.ID)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Permission exists with this name")
	}

	if req.ModuleID != 0 {
		if _, err := h.Repo.FindModuleByID(ctx, req.ModuleID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Module not found")
		}
		permission.ModuleID = req.ModuleID
	}
	permission.Name = req.Name
	if req.IsActive != nil {
		permission.IsActive = *req.IsActive
	}

	if err := h.Repo.SavePermission(ctx, permission); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission updated successfully", permission)
}

func (h *PermissionHTTP) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.Repo.SoftDeletePermission(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission deleted successfully", nil)
}
