package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kripesh01/admin-rbac/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Department{},
		&models.UserRole{},
		&models.User{},
		&models.Module{},
		&models.Permission{},
		&models.RolePermission{},
		&models.ApiKey{},
		&models.UserToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return New(db)
}
