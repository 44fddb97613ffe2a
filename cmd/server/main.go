package main

import (
	"log"
	"net/http"
	"os"

	"digilib/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"digilib/internal/auth"
	"digilib/internal/cache"
	"digilib/internal/config"
	"digilib/internal/db"
	"digilib/internal/handler"
	"digilib/internal/model"
	"digilib/internal/repository"
	"digilib/internal/router"
	"digilib/internal/service"
)

// @title Digital Library API
// @version 1.0
// @description Library catalog and borrowing tracker with role-gated access and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.BorrowRecord{},
			&model.Book{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.BorrowRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	borrowRepo := repository.NewBorrowRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	catalogService := service.NewCatalogService(userRepo, bookRepo, borrowRepo, cacheClient)
	lendingService := service.NewLendingService(userRepo, bookRepo, borrowRepo, cacheClient)
	reportService := service.NewReportService(userRepo, bookRepo, borrowRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(catalogService)
	borrowHandler := handler.NewBorrowHandler(lendingService)
	dashboardHandler := handler.NewDashboardHandler(reportService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		bookHandler,
		borrowHandler,
		dashboardHandler,
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
