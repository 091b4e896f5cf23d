package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kripesh01/admin-rbac/internal/hash"
	"github.com/kripesh01/admin-rbac/internal/middleware"
	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/service"
	"github.com/kripesh01/admin-rbac/internal/tokens"
)

type testEnv struct {
	e     *echo.Echo
	store *repo.GormRepo
	hash  hash.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.UserRole{},
		&models.User{},
		&models.Module{},
		&models.Permission{},
		&models.RolePermission{},
		&models.ApiKey{},
		&models.UserToken{},
	))

	store := repo.New(db)
	codec := tokens.NewCodec([]byte("test-jwt-secret"), 30*time.Minute, 7*24*time.Hour)
	hasher := hash.New(bcrypt.MinCost)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler()
	Register(e, &Deps{
		Auth:        &AuthHTTP{Svc: &service.AuthService{Repo: store, Codec: codec, Hasher: hasher}},
		Users:       &UserHTTP{Repo: store, Hasher: hasher},
		Roles:       &RoleHTTP{Repo: store},
		Departments: &DepartmentHTTP{Repo: store},
		Permissions: &PermissionHTTP{Repo: store},
		Guard:       middleware.NewGuard(store, codec),
	})

	return &testEnv{e: e, store: store, hash: hasher}
}

// seedUser creates a department, a role holding the given permissions under
// a "user" module, and an active user bound to that role.
func (env *testEnv) seedUser(t *testing.T, phone, password string, permissionNames ...string) *models.User {
	t.Helper()
	db := env.store.DB

	dep := models.Department{Name: "ops"}
	require.NoError(t, db.Create(&dep).Error)
	role := models.UserRole{Name: "manager", DepartmentID: dep.ID}
	require.NoError(t, db.Create(&role).Error)

	if len(permissionNames) > 0 {
		mod := models.Module{Name: "user"}
		require.NoError(t, db.Create(&mod).Error)
		for _, name := range permissionNames {
			perm := models.Permission{Name: name, ModuleID: mod.ID}
			require.NoError(t, db.Create(&perm).Error)
			require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
		}
	}

	hashed, err := env.hash.Hash(password)
	require.NoError(t, err)
	user := models.User{
		Name:         "Test User",
		Phone:        phone,
		Password:     hashed,
		RoleID:       &role.ID,
		DepartmentID: &dep.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func (env *testEnv) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func (env *testEnv) login(t *testing.T, phone, password string) (access, refresh string) {
	t.Helper()

	rec, envelope := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"phone": phone, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope["data"].(map[string]any)
	return data["access_token"].(string), data["refresh_token"].(string)
}

func TestLogin_SuccessEnvelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1", "list_user", "create_user")

	rec, envelope := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"phone": "5551234567", "password": "secret1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(200), envelope["status"])
	assert.Equal(t, "success", envelope["message"])

	data := envelope["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	user := data["user"].(map[string]any)
	assert.Equal(t, "5551234567", user["phone"])
	assert.Equal(t, "manager", user["role_name"])
	assert.Equal(t, "ops", user["department_name"])

	permissions := data["permissions"].([]any)
	require.Len(t, permissions, 1)
	group := permissions[0].(map[string]any)
	assert.Equal(t, "user", group["module_name"])
	assert.Equal(t, []any{"list_user", "create_user"}, group["permissions"])
}

func TestLogin_ErrorEnvelopes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1")

	rec, envelope := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"phone": "5551234567", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(401), envelope["status"])
	assert.Equal(t, "Invalid credentials", envelope["message"])
	assert.Nil(t, envelope["data"])

	rec, envelope = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"phone": "5551234567"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(400), envelope["status"])
}

func TestLogin_InactiveUserForbidden(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.seedUser(t, "5551234567", "secret1")
	require.NoError(t, env.store.DB.Model(user).Update("is_active", false).Error)

	rec, envelope := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"phone": "5551234567", "password": "secret1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Inactive user", envelope["message"])
}

func TestRefreshToken_ReturnsFreshAccessToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1")
	access, refresh := env.login(t, "5551234567", "secret1")

	rec, envelope := env.do(t, http.MethodPost, "/auth/refresh-token", "", map[string]string{
		"refresh_token": refresh,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelope["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEqual(t, access, data["access_token"])
	assert.Equal(t, refresh, data["refresh_token"])
}

func TestLogout_SecondCallFails(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1")
	access, refresh := env.login(t, "5551234567", "secret1")

	rec, _ := env.do(t, http.MethodPost, "/auth/logout", access, map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := env.do(t, http.MethodPost, "/auth/logout", access, map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(401), envelope["status"])

	rec, envelope = env.do(t, http.MethodPost, "/auth/refresh-token", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has been blacklisted", envelope["message"])
}

func TestLogout_RequiresAccessToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1")
	_, refresh := env.login(t, "5551234567", "secret1")

	rec, envelope := env.do(t, http.MethodPost, "/auth/logout", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header missing", envelope["message"])
}

func TestPasswordReset_Flow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1")
	access, _ := env.login(t, "5551234567", "secret1")

	rec, envelope := env.do(t, http.MethodPost, "/auth/password-reset", access, map[string]string{
		"current_password": "wrong", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password did not matched!", envelope["message"])

	rec, _ = env.do(t, http.MethodPost, "/auth/password-reset", access, map[string]string{
		"current_password": "secret1", "new_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"phone": "5551234567", "password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoute_PermissionGate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "5551234567", "secret1", "list_user")
	access, _ := env.login(t, "5551234567", "secret1")

	// Granted permission passes.
	rec, _ := env.do(t, http.MethodGet, "/users", access, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A route guarded by a permission the role lacks is forbidden.
	rec, envelope := env.do(t, http.MethodGet, "/roles", access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Permission denied", envelope["message"])
}

func TestDeactivationCutsOffUnexpiredToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.seedUser(t, "5551234567", "secret1", "list_user")
	access, _ := env.login(t, "5551234567", "secret1")

	rec, _ := env.do(t, http.MethodGet, "/users", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, env.store.DB.Model(user).Update("is_active", false).Error)

	rec, envelope := env.do(t, http.MethodGet, "/users", access, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid user", envelope["message"])
}
