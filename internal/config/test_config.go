package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from TEST_* variables.
// If the test database is not configured, an empty Config is returned and callers are expected to skip.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		return &Config{}, nil
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return &Config{}, nil
	}

	cfg.JWT.Secret = stringEnv("TEST_JWT_SECRET", "integration-test-secret")
	if cfg.JWT.AccessTokenExpiry, err = durationEnv("TEST_JWT_ACCESS_TOKEN_EXPIRY", time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTokenExpiry, err = durationEnv("TEST_JWT_REFRESH_TOKEN_EXPIRY", 168*time.Hour); err != nil {
		return nil, err
	}

	cfg.Storage.Driver = StorageDriverLocal
	cfg.Storage.MediaBasePath = os.Getenv("TEST_MEDIA_BASE_PATH")
	cfg.Storage.MediaBaseURL = stringEnv("TEST_MEDIA_BASE_URL", "http://localhost/media")

	return cfg, nil
}

// IsDatabaseConfigured reports whether a test database was configured
func (c *Config) IsDatabaseConfigured() bool {
	return c.Database.Host != ""
}
