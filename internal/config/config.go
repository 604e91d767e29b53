package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Authority AuthorityConfig
	Redis     RedisConfig
	Reconcile ReconcileConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// AuthorityConfig holds remote warranty-authority connection settings
type AuthorityConfig struct {
	URL            string
	Username       string
	Password       string
	TimeoutSeconds int // per-call latency bound
}

// RedisConfig holds the cache backend settings
type RedisConfig struct {
	URL string
}

// ReconcileConfig holds maintenance-pass scheduling settings
type ReconcileConfig struct {
	Enabled         bool
	IntervalMinutes int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3211"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "ecksvc"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Authority: AuthorityConfig{
			URL:            os.Getenv("AUTHORITY_URL"),
			Username:       os.Getenv("AUTHORITY_USERNAME"),
			Password:       os.Getenv("AUTHORITY_PASSWORD"),
			TimeoutSeconds: getEnvInt("AUTHORITY_TIMEOUT", 30),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Reconcile: ReconcileConfig{
			Enabled:         getEnv("RECONCILE_ENABLED", "true") == "true",
			IntervalMinutes: getEnvInt("RECONCILE_INTERVAL", 15),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
