package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/tokens"
)

const currentUserKey = "current_user"

// Guard authenticates requests and gates them on role permissions.
type Guard struct {
	Repo  *repo.GormRepo
	Codec *tokens.Codec
}

func NewGuard(r *repo.GormRepo, c *tokens.Codec) *Guard {
	return &Guard{Repo: r, Codec: c}
}

// CurrentUser returns the user resolved by RequireAuth, or nil.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(currentUserKey).(*models.User)
	return u
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// RequireAuth decodes the bearer access token and re-reads the user row, so
// a deactivated account loses access on its very next request even with an
// unexpired token in hand.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
		}

		claims, err := g.Codec.ParseAccess(token)
		if err != nil {
			return err
		}

		user, err := g.Repo.FindUserByID(c.Request().Context(), claims.UserID)
		if err != nil || !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user")
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

// RequirePermissions gates a route on the caller holding ANY of the named
// permissions. Superusers bypass the check entirely.
func (g *Guard) RequirePermissions(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
			}
			if user.IsSuperuser {
				return next(c)
			}
			if user.RoleID == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Permission denied")
			}

			names, err := g.Repo.PermissionNames(c.Request().Context(), *user.RoleID)
			if err != nil {
				return err
			}
			granted := make(map[string]struct{}, len(names))
			for _, n := range names {
				granted[n] = struct{}{}
			}
			for _, want := range required {
				if _, ok := granted[want]; ok {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Permission denied")
		}
	}
}

// RequireAPIKey authenticates service-to-service calls against the api_keys
// table. Parallel to JWT auth, never composed with it.
func (g *Guard) RequireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, ok := bearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
		}

		if _, err := g.Repo.FindActiveAPIKey(c.Request().Context(), key); err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Invalid API Key")
		}
		return next(c)
	}
}
