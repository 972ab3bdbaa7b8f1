package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/config"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
	"github.com/basafinder/basafinder-backend/internal/infrastructure/cache"
	"github.com/basafinder/basafinder-backend/internal/infrastructure/database"
	httpServer "github.com/basafinder/basafinder-backend/internal/infrastructure/http"
	"github.com/basafinder/basafinder-backend/internal/infrastructure/mail"
	"github.com/basafinder/basafinder-backend/internal/infrastructure/provider/shurjopay"
	"github.com/basafinder/basafinder-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Optional redis token cache for gateway credentials
	var tokenCache repository.TokenCache
	if cfg.Redis.Enabled {
		connectCtx, cancelConnect := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, closeRedis, err := cache.NewRedisCache(connectCtx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, zapLogger)
		cancelConnect()
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := closeRedis(); err != nil {
				zapLogger.Error("Failed to close redis connection", zap.Error(err))
			}
		}()
		tokenCache = redisCache
	}

	// Payment gateway client
	gateway := shurjopay.NewClient(shurjopay.Config{
		Endpoint: cfg.ShurjoPay.Endpoint,
		Username: cfg.ShurjoPay.Username,
		Password: cfg.ShurjoPay.Password,
		Prefix:   cfg.ShurjoPay.Prefix,
		Timeout:  cfg.ShurjoPay.Timeout,
	}, tokenCache, zapLogger)

	// Email notifier
	notifier := mail.NewMailer(mail.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, zapLogger)

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, gateway, notifier)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Info("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
