package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dropzone/internal/domain/repositories"
	"dropzone/internal/infrastructure/queue"
	"dropzone/internal/infrastructure/storage"
	"dropzone/internal/logging"
	"dropzone/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

// The worker drains the cleanup queue: chunk release after abort or
// finalize, and object deletion after a stored file is removed.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	blobStore, err := newBlobStore(cfg.Storage)
	if err != nil {
		slog.Error("blob store setup failed", "error", err)
		os.Exit(1)
	}

	pool := queue.NewWorkerPool(cfg.Redis.WorkerCount, blobStore)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := queue.Consume(ctx, rdb, pool); err != nil && ctx.Err() == nil {
			slog.Error("queue consumer failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("cleanup worker started", "workers", cfg.Redis.WorkerCount)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	cancel()
	pool.Shutdown()
	slog.Info("worker stopped cleanly")
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
