package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/logging"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/service"
	"github.com/kripesh01/admin-rbac/internal/tokens"
	"github.com/kripesh01/admin-rbac/internal/transport"
)

// respond wraps data in the response envelope.
func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, transport.Response{Status: status, Message: message, Data: data})
}

// ErrorHandler translates typed errors into the response envelope in one
// place; handlers raise sentinels and never build error bodies themselves.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *echo.HTTPError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			status, message = http.StatusUnauthorized, "Invalid credentials"
		case errors.Is(err, service.ErrInactiveAccount):
			status, message = http.StatusForbidden, "Inactive user"
		case errors.Is(err, tokens.ErrTokenExpired):
			status, message = http.StatusUnauthorized, "Token has expired"
		case errors.Is(err, service.ErrTokenRevoked):
			status, message = http.StatusUnauthorized, "Token has been blacklisted"
		case errors.Is(err, tokens.ErrTokenInvalid), errors.Is(err, repo.ErrTokenNotFound):
			status, message = http.StatusUnauthorized, "Invalid token"
		case errors.Is(err, service.ErrPasswordMismatch):
			status, message = http.StatusBadRequest, "Current password did not matched!"
		case errors.Is(err, repo.ErrNotFound):
			status, message = http.StatusNotFound, "Not found"
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("request_error", "status", status, "error", err)
		}

		if respErr := respond(c, status, message, nil); respErr != nil {
			logging.FromContext(c.Request().Context()).Error("error_response_write_failed", "error", respErr)
		}
	}
}
