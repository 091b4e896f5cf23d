package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/transport"
)

type DepartmentHTTP struct {
	Repo *repo.GormRepo
}

func (h *DepartmentHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit, offset := pageParams(c)

	f := repo.DepartmentFilter{
		Name:     c.QueryParam("name"),
		IsActive: boolQuery(c, "is_active"),
		Offset:   offset,
		Limit:    limit,
	}

	departments, total, err := h.Repo.ListDepartments(ctx, f)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "success", transport.DepartmentListData{
		Pagination:  transport.NewPagination(c.Request().URL.Path, page, limit, total),
		Departments: departments,
	})
}

func (h *DepartmentHTTP) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	department, err := h.Repo.FindDepartmentByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "success", department)
}

func (h *DepartmentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	exists, err := h.Repo.DepartmentExistsByName(ctx, req.Name, 0)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Department exists with this name")
	}

	department := models.Department{Name: req.Name}
	if err := h.Repo.CreateDepartment(ctx, &department); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Department created successfully", department)
}

func (h *DepartmentHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	department, err := h.Repo.FindDepartmentByID(ctx, id)
	if err != nil {
		return err
	}

	exists, err := h.Repo.DepartmentExistsByName(ctx, req.Name, department.ID)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Department exists with this name")
	}

	department.Name = req.Name
	if err := h.Repo.SaveDepartment(ctx, department); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Department updated successfully", department)
}

func (h *DepartmentHTTP) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.Repo.SoftDeleteDepartment(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Department deleted successfully", nil)
}
