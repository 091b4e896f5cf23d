package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kripesh01/admin-rbac/internal/config"
	"github.com/kripesh01/admin-rbac/internal/events"
	"github.com/kripesh01/admin-rbac/internal/hash"
	"github.com/kripesh01/admin-rbac/internal/httpserver"
	"github.com/kripesh01/admin-rbac/internal/logging"
	"github.com/kripesh01/admin-rbac/internal/middleware"
	"github.com/kripesh01/admin-rbac/internal/repo"
	"github.com/kripesh01/admin-rbac/internal/service"
	"github.com/kripesh01/admin-rbac/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.OpenDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := repo.New(db)
	codec := tokens.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	hasher := hash.New(cfg.BcryptCost)
	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	guard := middleware.NewGuard(store, codec)
	authSvc := &service.AuthService{
		Repo:   store,
		Codec:  codec,
		Hasher: hasher,
		Events: producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.HTTPErrorHandler = httpserver.ErrorHandler()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: authSvc},
		Users:       &httpserver.UserHTTP{Repo: store, Hasher: hasher},
		Roles:       &httpserver.RoleHTTP{Repo: store},
		Departments: &httpserver.DepartmentHTTP{Repo: store},
		Permissions: &httpserver.PermissionHTTP{Repo: store},
		Guard:       guard,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
}
