package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	DatabaseType string // sqlite, postgres or mysql
	DatabaseURL  string // postgres/mysql connection string
	DatabasePath string // sqlite file path

	MigrationsPath string

	// JWTSecret verifies bearer tokens issued by the auth subsystem.
	JWTSecret string

	// AI generation
	OpenRouterAPIKey string
	OpenRouterModel  string
	AIRequestTimeout time.Duration
	AIDailyLimit     int
	AICountMin       int
	AICountMax       int

	// Quiz
	MinTestItems int

	// Housekeeping
	QuotaRetentionDays int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:        getEnv("DB_URL", ""),
		DatabasePath:       getEnv("DB_PATH", "./memo.db"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		AIRequestTimeout:   getDuration("AI_REQUEST_TIMEOUT", 30*time.Second),
		AIDailyLimit:       getInt("AI_DAILY_LIMIT", 5),
		AICountMin:         getInt("AI_COUNT_MIN", 10),
		AICountMax:         getInt("AI_COUNT_MAX", 50),
		MinTestItems:       getInt("MIN_TEST_ITEMS", 5),
		QuotaRetentionDays: getInt("QUOTA_RETENTION_DAYS", 30),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt reads an integer environment variable or returns a default value
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
