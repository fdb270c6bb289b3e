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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/resourcehub/backend/docs"
	"github.com/resourcehub/backend/internal/auth/middleware"
	"github.com/resourcehub/backend/internal/auth/service"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/config"
	"github.com/resourcehub/backend/internal/handlers"
	"github.com/resourcehub/backend/internal/logger"
	loggerMiddleware "github.com/resourcehub/backend/internal/logger/middleware"
	"github.com/resourcehub/backend/internal/middlewares"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/repositories"
	"github.com/resourcehub/backend/internal/services"
	"github.com/resourcehub/backend/internal/storage"
	"github.com/resourcehub/backend/internal/tasks"
	"github.com/resourcehub/backend/internal/validation"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// bodyLimits: a multipart submission carries a featured image, additional images and several attachments
var bodyLimits = middlewares.BodyLimits{
	JSON:      1 << 20,
	Multipart: 60 << 20,
}

// @title Resource Hub API
// @version 1.0
// @description API for sharing and moderating community teaching resources

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
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

	logger.Logger.Info("Starting Resource Hub API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Homepage cache
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
			logger.Logger.Warn("Redis unavailable, homepage cache disabled", zap.Error(err))
		} else {
			homeCache = redisCache
		}
	}

	// Job queue
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	enqueuer := tasks.NewEnqueuer(asynqClient, logger.Logger)

	// Object storage
	store, localStore := newObjectStore(cfg.Storage)

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	resourceRepo := repositories.NewResourceRepository(db)
	profileRepo := repositories.NewProfileRepository(db, logger.Logger)
	featuredListRepo := repositories.NewFeaturedListRepository(db)

	// Initialize services
	validator := validation.New()
	uploader := services.NewAttachmentUploader(store, logger.Logger)
	browseService := services.NewBrowseService(resourceRepo, logger.Logger)
	submissionService := services.NewSubmissionService(resourceRepo, uploader, validator, enqueuer, homeCache, logger.Logger, cfg.AdminEmail, cfg.Server.PublicURL)
	resourceService := services.NewResourceService(resourceRepo, logger.Logger)
	moderationService := services.NewModerationService(resourceRepo, profileRepo, enqueuer, homeCache, logger.Logger, cfg.Server.PublicURL)
	featuredListService := services.NewFeaturedListService(featuredListRepo, validator, homeCache, logger.Logger)
	homeService := services.NewHomeService(browseService, featuredListRepo, homeCache, cfg.Home.CacheTTL, logger.Logger)
	authService := services.NewAuthService(profileRepo, validator, tokenGenerator, logger.Logger)
	profileService := services.NewProfileService(profileRepo, validator, logger.Logger)
	contactService := services.NewContactService(enqueuer, validator, logger.Logger, cfg.AdminEmail)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(tokenGenerator)
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleAdmin))

	// Initialize handlers
	resourceHandler := handlers.NewResourceHandler(submissionService, resourceService, browseService, logger.Logger, authMiddleware, optionalAuthMiddleware)
	uploadHandler := handlers.NewUploadHandler(uploader, logger.Logger, authMiddleware)
	adminHandler := handlers.NewAdminHandler(moderationService, featuredListService, logger.Logger, adminMiddleware)
	catalogueHandler := handlers.NewCatalogueHandler(homeService, logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger, authMiddleware)
	contactHandler := handlers.NewContactHandler(contactService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(bodyLimits))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Files written by the local store
	if localStore != nil {
		handlers.NewMediaHandler(localStore, logger.Logger).RegisterRoutes(r)
	}

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		profileHandler.RegisterRoutes(r)
		uploadHandler.RegisterRoutes(r)
		resourceHandler.RegisterRoutes(r)
		catalogueHandler.RegisterRoutes(r)
		contactHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// newObjectStore builds the configured object store.
// The local store is also returned on its own so its files can be served back.
func newObjectStore(cfg config.StorageConfig) (storage.ObjectStore, handlers.FileOpener) {
	if cfg.Driver == config.StorageDriverSupabase {
		return storage.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, &http.Client{Timeout: 60 * time.Second}), nil
	}
	local := storage.NewLocalStorage(cfg.MediaBasePath, cfg.MediaBaseURL)
	return local, local
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
