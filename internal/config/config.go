package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	DevMode  bool
	LogLevel string

	DatabasePath string

	// Reference artifacts: loaded from ArtifactsDir, optionally downloaded
	// from S3 first when a bucket is configured.
	ArtifactsDir      string
	ArtifactsS3Bucket string
	ArtifactsS3Prefix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AnalysisCacheTTL time.Duration
	TextCacheTTL     time.Duration

	UniverseRefreshCron string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 8010),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabasePath: getEnv("DATABASE_PATH", "./data/universe.db"),

		ArtifactsDir:      getEnv("ARTIFACTS_DIR", "./artifacts"),
		ArtifactsS3Bucket: getEnv("ARTIFACTS_S3_BUCKET", ""),
		ArtifactsS3Prefix: getEnv("ARTIFACTS_S3_PREFIX", "models/latest"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AnalysisCacheTTL: getEnvAsDuration("ANALYSIS_CACHE_TTL", time.Hour),
		TextCacheTTL:     getEnvAsDuration("TEXT_CACHE_TTL", 3*time.Hour),

		UniverseRefreshCron: getEnv("UNIVERSE_REFRESH_CRON", "@hourly"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.ArtifactsDir == "" {
		return fmt.Errorf("ARTIFACTS_DIR is required")
	}
	if c.AnalysisCacheTTL <= 0 || c.TextCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
