package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/middleware"
)

type Deps struct {
	Auth        *AuthHTTP
	Users       *UserHTTP
	Roles       *RoleHTTP
	Departments *DepartmentHTTP
	Permissions *PermissionHTTP
	Guard       *middleware.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/login", d.Auth.Login)
	e.POST("/auth/refresh-token", d.Auth.Refresh)

	private := e.Group("", d.Guard.RequireAuth)
	private.POST("/auth/logout", d.Auth.Logout)
	private.POST("/auth/password-reset", d.Auth.ResetPassword)

	users := private.Group("/users")
	users.GET("", d.Users.List, d.Guard.RequirePermissions("list_user"))
	users.GET("/:id", d.Users.Get, d.Guard.RequirePermissions("list_user"))
	users.POST("", d.Users.Create, d.Guard.RequirePermissions("create_user"))
	users.PUT("/:id", d.Users.Update, d.Guard.RequirePermissions("update_user"))
	users.DELETE("/:id", d.Users.Delete, d.Guard.RequirePermissions("delete_user"))

	roles := private.Group("/roles")
	roles.GET("", d.Roles.List, d.Guard.RequirePermissions("list_role"))
	roles.GET("/:id", d.Roles.Get, d.Guard.RequirePermissions("list_role"))
	roles.POST("", d.Roles.Create, d.Guard.RequirePermissions("create_role"))
	roles.PUT("/:id", d.Roles.Update, d.Guard.RequirePermissions("update_role"))
	roles.DELETE("/:id", d.Roles.Delete, d.Guard.RequirePermissions("delete_role"))

	departments := private.Group("/departments")
	departments.GET("", d.Departments.List, d.Guard.RequirePermissions("list_department"))
	departments.GET("/:id", d.Departments.Get, d.Guard.RequirePermissions("list_department"))
	departments.POST("", d.Departments.Create, d.Guard.RequirePermissions("create_department"))
	departments.PUT("/:id", d.Departments.Update, d.Guard.RequirePermissions("update_department"))
	departments.DELETE("/:id", d.Departments.Delete, d.Guard.RequirePermissions("delete_department"))

	permissions := private.Group("/permissions")
	permissions.GET("", d.Permissions.List, d.Guard.RequirePermissions("list_permission"))
	permissions.GET("/:id", d.Permissions.Get, d.Guard.RequirePermissions("list_permission"))
	permissions.POST("", d.Permissions.Create, d.Guard.RequirePermissions("create_permission"))
	permissions.PUT("/:id", d.Permissions.Update, d.Guard.RequirePermissions("update_permission"))
	permissions.DELETE("/:id", d.Permissions.Delete, d.Guard.RequirePermissions("delete_permission"))
}
