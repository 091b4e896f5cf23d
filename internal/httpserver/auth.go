package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/logging"
	"github.com/kripesh01/admin-rbac/internal/middleware"
	"github.com/kripesh01/admin-rbac/internal/service"
	"github.com/kripesh01/admin-rbac/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Phone == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone and password are required")
	}

	res, err := h.Svc.Login(ctx, req.Phone, req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return err
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return respond(c, http.StatusOK, "success", transport.LoginData{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         transport.NewUserProfile(res.User),
		Permissions:  res.Permissions,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "success", transport.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		l.Warn("logout_failed", "error", err)
		return err
	}

	l.Info("logout_successful")
	return respond(c, http.StatusOK, "success", nil)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.NewPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "new password must be at least 6 characters")
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
	}

	if err := h.Svc.ResetPassword(ctx, user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "success", nil)
}
