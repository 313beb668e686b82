package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "dropzone/docs"
	_ "dropzone/migrations"

	"dropzone/internal/delivery/http/routers"
	"dropzone/internal/domain/repositories"
	"dropzone/internal/infrastructure/db"
	"dropzone/internal/infrastructure/queue"
	infra_repo "dropzone/internal/infrastructure/repositories"
	"dropzone/internal/infrastructure/storage"
	"dropzone/internal/logging"
	"dropzone/internal/pkg/config"
	"dropzone/internal/usecases"
	"dropzone/pkg/constants"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

// @title        Dropzone Ingestion API
// @version      1.0
// @description  Resumable chunked file-upload ingestion service with share links
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel)

	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if os.Getenv("RUN_AUTO_MIGRATION") == "true" {
		sqlDB, err := database.DB()
		if err != nil {
			slog.Error("could not obtain sql.DB", "error", err)
			os.Exit(1)
		}
		goose.SetBaseFS(nil)
		if err := goose.SetDialect("postgres"); err != nil {
			slog.Error("could not set goose dialect", "error", err)
			os.Exit(1)
		}
		if err := goose.Up(sqlDB, "."); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	blobStore, err := newBlobStore(cfg.Storage)
	if err != nil {
		slog.Error("blob store setup failed", "error", err)
		os.Exit(1)
	}

	// Repositories & services
	sessionRepo := infra_repo.NewInMemorySessionRepository()
	linkRepo := infra_repo.NewLinkRepository(database)
	fileRepo := infra_repo.NewFileRepository(database)
	releaser := queue.NewRedisReleaser(rdb)
	events := queue.NewRedisEventPublisher(rdb)

	assembler := usecases.NewChunkAssembler(blobStore)
	manager := usecases.NewSessionManager(sessionRepo, blobStore, assembler, fileRepo, releaser, events, usecases.SessionPolicy{
		MaxFileSize:  cfg.Upload.MaxFileSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})
	coordinator := usecases.NewCoordinator(manager, cfg.Upload.MaxConcurrentSessions)
	registry := usecases.NewLinkRegistry(linkRepo, fileRepo, cfg.Links.TTL)
	fileService := usecases.NewFileService(fileRepo, linkRepo, blobStore, releaser)

	reaper := usecases.NewReaper(coordinator, registry, cfg.Upload.StaleTimeout, cfg.Upload.Retention)
	if err := reaper.Start(cfg.Upload.ReapSchedule); err != nil {
		slog.Error("could not schedule reaper", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSize),
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Routes
	routers.Setup(app, coordinator, registry, fileService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": constants.StatusOK})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	slog.Info("server starting", "addr", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	reaper.Stop()

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped cleanly")
}

func newBlobStore(cfg config.StorageConfig) (repositories.BlobStore, error) {
	switch cfg.Driver {
	case "s3":
		return storage.NewS3Storage(context.Background(), cfg.S3Bucket, cfg.S3Region)
	default:
		if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create blob directory: %w", err)
		}
		return storage.NewLocalStorage(cfg.LocalDir), nil
	}
}
