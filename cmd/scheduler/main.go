package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/config"
	"github.com/resourcehub/backend/internal/logger"
	"github.com/resourcehub/backend/internal/repositories"
	"github.com/resourcehub/backend/internal/services"
	"github.com/resourcehub/backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Resource Hub Scheduler")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Homepage cache, shared with the API through Redis
	var homeCache cache.Cache = cache.NewNoop()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		redisCache := cache.NewRedis(rdb, "resourcehub:")
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		homeCache = redisCache
	}

	// Object storage
	var store storage.ObjectStore
	if cfg.Storage.Driver == config.StorageDriverSupabase {
		store = storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, &http.Client{Timeout: 60 * time.Second})
	} else {
		store = storage.NewLocalStorage(cfg.Storage.MediaBasePath, cfg.Storage.MediaBaseURL)
	}

	// Initialize repositories and services
	resourceRepo := repositories.NewResourceRepository(db)
	featuredListRepo := repositories.NewFeaturedListRepository(db)
	cleanupService := services.NewCleanupService(store, resourceRepo, cfg.Cleanup.MinAge, logger.Logger)
	browseService := services.NewBrowseService(resourceRepo, logger.Logger)
	homeService := services.NewHomeService(browseService, featuredListRepo, homeCache, cfg.Home.CacheTTL, logger.Logger)

	// Create scheduler instance
	scheduler, err := NewScheduler(cleanupService, homeService, logger.Logger, cfg.Cleanup.Cron)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Start scheduler
	scheduler.Start()
	defer func() {
		logger.Logger.Info("Shutting down scheduler...")
		scheduler.Stop()
		logger.Logger.Info("Scheduler exited")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
