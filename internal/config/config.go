// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverLocal    = "local"
	StorageDriverSupabase = "supabase"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Logging    LoggingConfig
	CORS       CORSConfig
	JWT        JWTConfig
	SMTP       SMTPConfig
	Storage    StorageConfig
	Home       HomeConfig
	Cleanup    CleanupConfig
	AdminEmail string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings.
// Enabled only switches the homepage cache; the job queue always needs Redis.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerConfig holds server settings.
// PublicURL is the site address used in links inside e-mails.
type ServerConfig struct {
	Port      int
	PublicURL string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Driver        string
	MediaBasePath string
	MediaBaseURL  string
	SupabaseURL   string
	SupabaseKey   string
}

// HomeConfig holds homepage settings
type HomeConfig struct {
	CacheTTL time.Duration
}

// CleanupConfig holds orphaned upload sweep settings
type CleanupConfig struct {
	Cron   string
	MinAge time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort
	cfg.Server.PublicURL = strings.TrimSuffix(stringEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", serverPort)), "/")

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	if cfg.JWT.AccessTokenExpiry, err = durationEnv("JWT_ACCESS_TOKEN_EXPIRY", time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTokenExpiry, err = durationEnv("JWT_REFRESH_TOKEN_EXPIRY", 168*time.Hour); err != nil {
		return nil, err
	}

	// Redis configuration
	cfg.Redis.Enabled = os.Getenv("REDIS_ENABLED") == "true"
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// SMTP configuration
	cfg.SMTP.Host = stringEnv("SMTP_HOST", "localhost")
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME") // optional
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD") // optional
	cfg.SMTP.From = stringEnv("SMTP_FROM", "noreply@resourcehub.local")

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")

	// Storage configuration
	cfg.Storage.Driver = stringEnv("STORAGE_DRIVER", StorageDriverLocal)
	cfg.Storage.MediaBasePath = stringEnv("MEDIA_BASE_PATH", "./media")
	cfg.Storage.MediaBaseURL = stringEnv("MEDIA_BASE_URL", fmt.Sprintf("http://localhost:%d/media", cfg.Server.Port))
	cfg.Storage.SupabaseURL = strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	cfg.Storage.SupabaseKey = os.Getenv("SUPABASE_SERVICE_KEY")

	switch cfg.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverSupabase:
		if cfg.Storage.SupabaseURL == "" || cfg.Storage.SupabaseKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %s", cfg.Storage.Driver)
	}

	if cfg.Home.CacheTTL, err = durationEnv("HOME_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.Cleanup.Cron = stringEnv("ORPHAN_SWEEP_CRON", "@daily")
	if cfg.Cleanup.MinAge, err = durationEnv("ORPHAN_MIN_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the database connection string.
// clientFoundRows makes RowsAffected count matched rows, so an update that changes nothing is not read as a missing row.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// parseOrigins splits comma-separated origins, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
