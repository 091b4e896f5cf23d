package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/hash"
	"github.com/kripesh01/admin-rbac/internal/middleware"
	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/transport"
	"github.com/kripesh01/admin-rbac/internal/util"
)

type UserHTTP struct {
	Repo   *repo.GormRepo
	Hasher hash.Hasher
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (page, limit, offset int) {
	p, _ := strconv.Atoi(c.QueryParam("page"))
	l, _ := strconv.Atoi(c.QueryParam("limit"))
	return util.Normalize(p, l)
}

func boolQuery(c echo.Context, name string) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// departmentScope returns the department filter for the caller: superusers
// see everything, everyone else only their own department.
func departmentScope(u *models.User) *uint {
	if u.IsSuperuser {
		return nil
	}
	return u.DepartmentID
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)
	page, limit, offset := pageParams(c)

	roleID, _ := strconv.ParseUint(c.QueryParam("role_id"), 10, 32)
	f := repo.UserFilter{
		Name:         c.QueryParam("name"),
		Email:        c.QueryParam("email"),
		Phone:        c.QueryParam("phone"),
		RoleID:       uint(roleID),
		IsActive:     boolQuery(c, "is_active"),
		DepartmentID: departmentScope(caller),
		Offset:       offset,
		Limit:        limit,
	}

	users, total, err := h.Repo.ListUsers(ctx, f)
	if err != nil {
		return err
	}

	profiles := make([]transport.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, transport.NewUserProfile(&users[i]))
	}

	return respond(c, http.StatusOK, "success", transport.UserListData{
		Pagination: transport.NewPagination(c.Request().URL.Path, page, limit, total),
		Users:      profiles,
	})
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	user, err := h.Repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if scope := departmentScope(caller); scope != nil &&
		(user.DepartmentID == nil || *user.DepartmentID != *scope) {
		return repo.ErrNotFound
	}

	return respond(c, http.StatusOK, "success", transport.NewUserProfile(user))
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Phone == "" || len(req.Password) < 4 {
		return echo.NewHTTPError(http.StatusBadRequest, "name, phone and password are required")
	}

	exists, err := h.Repo.UserExistsByContact(ctx, req.Phone, req.Email, 0)
	if err != nil {
		return err
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "User exists with this phone or email")
	}

	departmentID := req.DepartmentID
	if !caller.IsSuperuser {
		departmentID = caller.DepartmentID
	}

	if req.RoleID != nil {
		if _, err := h.Repo.FindRoleByID(ctx, *req.RoleID, departmentID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Role not found in this department")
		}
	}

	hashed, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     hashed,
		RoleID:       req.RoleID,
		DepartmentID: departmentID,
	}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "User created successfully", transport.NewUserProfile(&user))
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if scope := departmentScope(caller); scope != nil &&
		(user.DepartmentID == nil || *user.DepartmentID != *scope) {
		return repo.ErrNotFound
	}

	if req.Email != nil && *req.Email != "" {
		exists, err := h.Repo.UserExistsByContact(ctx, user.Phone, req.Email, user.ID)
		if err != nil {
			return err
		}
		if exists {
			return echo.NewHTTPError(http.StatusBadRequest, "User exists with this email")
		}
	}
	if req.RoleID != nil {
		if _, err := h.Repo.FindRoleByID(ctx, *req.RoleID, user.DepartmentID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Role not found in this department")
		}
		user.RoleID = req.RoleID
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.Repo.SaveUser(ctx, user); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", transport.NewUserProfile(user))
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	caller := middleware.CurrentUser(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}

	user, err := h.Repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if scope := departmentScope(caller); scope != nil &&
		(user.DepartmentID == nil || *user.DepartmentID != *scope) {
		return repo.ErrNotFound
	}

	if err := h.Repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
