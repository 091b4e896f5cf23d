package models

import (
	"time"

	"gorm.io/gorm"
)

// Base carries the soft-delete convention shared by every table: a row is
// logically gone when is_deleted is true, and most listings additionally
// require is_active.
type Base struct {
	IsActive  bool      `gorm:"not null;default:true"  json:"is_active"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) SoftDelete() {
	b.IsActive = false
	b.IsDeleted = true
	b.UpdatedAt = time.Now()
}

// SoftDeleteValues is the column set used when soft-deleting via a bulk
// UPDATE rather than through a loaded struct.
func SoftDeleteValues() map[string]any {
	return map[string]any{
		"is_active":  false,
		"is_deleted": true,
		"updated_at": time.Now(),
	}
}

// NotDeleted scopes a query to rows that were never soft-deleted.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Active scopes a query to rows that are both present and enabled.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ? AND is_active = ?", false, true)
}

type Department struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Base
}

type UserRole struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	DepartmentID uint   `gorm:"not null;index" json:"department_id"`
	Editable     bool   `gorm:"not null;default:true" json:"editable"`
	Base

	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email"`
	Phone        string  `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	Password     string  `gorm:"size:255;not null" json:"-"`
	RoleID       *uint   `gorm:"index" json:"role_id"`
	DepartmentID *uint   `gorm:"index" json:"department_id"`
	IsSuperuser  bool    `gorm:"not null;default:false" json:"is_superuser"`
	Base

	Role       *UserRole   `gorm:"foreignKey:RoleID" json:"-"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}

// Module is a pure namespace grouping permissions for presentation.
type Module struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Base
}

type Permission struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ModuleID uint   `gorm:"not null;index" json:"module_id"`
	Base

	Module *Module `gorm:"foreignKey:ModuleID" json:"-"`
}

// RolePermission grants a permission to a role. Replaced grants are
// soft-deleted, preserving history.
type RolePermission struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID       uint `gorm:"not null;index" json:"role_id"`
	PermissionID uint `gorm:"not null;index" json:"permission_id"`
	Base
}

func (RolePermission) TableName() string { return "user_role_permissions" }

// ApiKey is an opaque service-to-service credential, parallel to user JWTs.
type ApiKey struct {
	ID  uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key string `gorm:"size:255;uniqueIndex;not null" json:"key"`
	Base
}

// UserToken is the refresh-token ledger. Rows are created at issuance and
// only ever mutated to flip is_blacklisted; never hard-deleted.
type UserToken struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token         string    `gorm:"size:512;uniqueIndex;not null" json:"token"`
	JTI           string    `gorm:"column:jti;size:64;uniqueIndex;not null" json:"jti"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsBlacklisted bool      `gorm:"not null;default:false" json:"is_blacklisted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
