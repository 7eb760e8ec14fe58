package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/database"
	"github.com/pageza/pantry/backend/internal/logging"
	"github.com/pageza/pantry/backend/internal/server"
	"github.com/pageza/pantry/backend/internal/storage"
)

func main() {
	logger, err := logging.New(logging.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	images, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to set up image storage", zap.Error(err))
	}

	deps := server.Dependencies{DB: db, Images: images}
	if cfg.RedisURL != "" {
		// Continue without rate limiting if Redis is not available
		client, err := database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Warn("rate limiting disabled", zap.Error(err))
		} else {
			deps.Redis = client
			defer client.Close()
		}
	}

	srv := server.New(cfg, deps, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}
