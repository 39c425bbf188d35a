package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"map-draw/internal/common/config"
	"map-draw/internal/common/middleware"
	"map-draw/internal/draw/handlers"
	"map-draw/internal/draw/preview"
	"map-draw/internal/draw/projection"
	"map-draw/internal/draw/repository"
	"map-draw/internal/draw/service"
	"map-draw/internal/draw/style"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Draw Service
// ============================================================

func main() {
	cfg := config.Load()

	defaults, err := style.LoadDefaults(cfg.StyleDefaultsPath)
	if err != nil {
		log.Fatalf("style defaults: %v", err)
	}

	registry, err := projection.NewRegistry()
	if err != nil {
		log.Fatalf("projections: %v", err)
	}
	if !registry.Known(cfg.WorkingCRS) {
		log.Fatalf("unknown working projection %s", cfg.WorkingCRS)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := service.NewSessionManager(registry, cfg.WorkingCRS, defaults)
	renderer := preview.NewRenderer(cfg.PreviewWidth, cfg.PreviewHeight)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Draw Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.AllowOrigins))

	handlers.Register(app,
		handlers.NewDrawHandler(sessions, repo, renderer),
		handlers.NewHealthHandler(repo),
		handlers.NewDocsHandler(cfg.OpenAPIPath),
	)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Draw Service on %s (env: %s, crs: %s)", addr, cfg.Environment, cfg.WorkingCRS)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
