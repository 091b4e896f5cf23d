package transport

import (
	"fmt"
	"time"

	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
)

// Response is the envelope every endpoint answers with; Status mirrors the
// HTTP status code.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UserProfile struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	Phone          string  `json:"phone"`
	RoleID         *uint   `json:"role_id"`
	RoleName       *string `json:"role_name"`
	IsActive       bool    `json:"is_active"`
	DepartmentID   *uint   `json:"department_id"`
	DepartmentName *string `json:"department_name"`
}

func NewUserProfile(u *models.User) UserProfile {
	p := UserProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		RoleID:       u.RoleID,
		IsActive:     u.IsActive,
		DepartmentID: u.DepartmentID,
	}
	if u.Role != nil {
		p.RoleName = &u.Role.Name
	}
	if u.Department != nil {
		p.DepartmentName = &u.Department.Name
	}
	return p
}

type LoginData struct {
	AccessToken  string                   `json:"access_token"`
	RefreshToken string                   `json:"refresh_token"`
	User         UserProfile              `json:"user"`
	Permissions  []repo.ModulePermissions `json:"permissions"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Pagination struct {
	CurrentPage     int     `json:"current_page"`
	TotalPages      int     `json:"total_pages"`
	TotalRecords    int64   `json:"total_records"`
	RecordPerPage   int     `json:"record_per_page"`
	PreviousPageURL *string `json:"previous_page_url"`
	NextPageURL     *string `json:"next_page_url"`
}

// NewPagination reproduces the list-response page metadata, including the
// relative previous/next URLs.
func NewPagination(path string, page, limit int, total int64) Pagination {
	p := Pagination{
		CurrentPage:   page,
		TotalPages:    int((total + int64(limit) - 1) / int64(limit)),
		TotalRecords:  total,
		RecordPerPage: limit,
	}
	if page > 1 {
		prev := fmt.Sprintf("%s?page=%d&limit=%d", path, page-1, limit)
		p.PreviousPageURL = &prev
	}
	if int64(page*limit) < total {
		next := fmt.Sprintf("%s?page=%d&limit=%d", path, page+1, limit)
		p.NextPageURL = &next
	}
	return p
}

type CreateUserRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	RoleID       *uint   `json:"role_id"`
	DepartmentID *uint   `json:"department_id"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	RoleID   *uint   `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

type UserListData struct {
	Pagination Pagination    `json:"pagination"`
	Users      []UserProfile `json:"users"`
}

type RoleRequest struct {
	Name          string `json:"name"`
	DepartmentID  *uint  `json:"department_id"`
	PermissionIDs []uint `json:"permission_ids"`
}

type RoleData struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	IsActive    bool                   `json:"is_active"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Permissions []repo.PermissionGroup `json:"permissions"`
}

func NewRoleData(role *models.UserRole, permissions []repo.PermissionGroup) RoleData {
	if permissions == nil {
		permissions = []repo.PermissionGroup{}
	}
	return RoleData{
		ID:          role.ID,
		Name:        role.Name,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
		Permissions: permissions,
	}
}

type RoleListData struct {
	Pagination Pagination `json:"pagination"`
	Roles      []RoleData `json:"roles"`
}

type DepartmentRequest struct {
	Name string `json:"name"`
}

type DepartmentListData struct {
	Pagination  Pagination          `json:"pagination"`
	Departments []models.Department `json:"departments"`
}

type PermissionRequest struct {
	Name     string `json:"name"`
	ModuleID uint   `json:"module_id"`
	IsActive *bool  `json:"is_active"`
}

type PermissionListData struct {
	Pagination  Pagination                  `json:"pagination"`
	Permissions []repo.PermissionWithModule `json:"permissions"`
}
