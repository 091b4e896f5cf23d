// Command seed bootstraps the entities an empty deployment needs before the
// API can be used: a department, a superuser, an API key, or a module with
// its permission catalog.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kripesh01/admin-rbac/internal/config"
	"github.com/kripesh01/admin-rbac/internal/hash"
	"github.com/kripesh01/admin-rbac/internal/models"
	"github.com/kripesh01/admin-rbac/internal/repo"
)

func main() {
	var (
		department  = flag.String("department", "", "create a department with this name")
		superuser   = flag.Bool("superuser", false, "create a superuser (requires -name, -phone, -password)")
		name        = flag.String("name", "", "superuser name")
		email       = flag.String("email", "", "superuser email")
		phone       = flag.String("phone", "", "superuser phone")
		password    = flag.String("password", "", "superuser password")
		apikey      = flag.Bool("apikey", false, "generate a new API key")
		module      = flag.String("module", "", "create a module with this name")
		permissions = flag.String("permissions", "", "comma-separated permission names for -module")
	)
	flag.Parse()

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := config.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	store := repo.New(db)

	switch {
	case *department != "":
		dep := models.Department{Name: *department}
		if err := store.CreateDepartment(ctx, &dep); err != nil {
			log.Fatalf("create department: %v", err)
		}
		fmt.Printf("Department created: ID=%d Name=%s\n", dep.ID, dep.Name)

	case *superuser:
		if *name == "" || *phone == "" || *password == "" {
			log.Fatal("superuser requires -name, -phone and -password")
		}
		hasher := hash.New(cfg.BcryptCost)
		hashed, err := hasher.Hash(*password)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		user := models.User{
			Name:        *name,
			Phone:       *phone,
			Password:    hashed,
			IsSuperuser: true,
		}
		if *email != "" {
			user.Email = email
		}
		if err := store.CreateUser(ctx, &user); err != nil {
			log.Fatalf("create superuser: %v", err)
		}
		fmt.Printf("Superuser created: ID=%d Phone=%s\n", user.ID, user.Phone)

	case *apikey:
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatalf("generate key: %v", err)
		}
		key := models.ApiKey{Key: base64.RawURLEncoding.EncodeToString(buf)}
		if err := store.CreateAPIKey(ctx, &key); err != nil {
			log.Fatalf("create api key: %v", err)
		}
		fmt.Printf("New API key generated: %s\n", key.Key)

	case *module != "":
		mod := models.Module{Name: *module}
		if err := db.WithContext(ctx).Create(&mod).Error; err != nil {
			log.Fatalf("create module: %v", err)
		}
		for _, permName := range config.CSV(*permissions) {
			perm := models.Permission{Name: strings.TrimSpace(permName), ModuleID: mod.ID}
			if err := store.CreatePermission(ctx, &perm); err != nil {
				log.Fatalf("create permission %q: %v", permName, err)
			}
		}
		fmt.Printf("Module created: ID=%d Name=%s\n", mod.ID, mod.Name)

	default:
		flag.Usage()
	}
}
