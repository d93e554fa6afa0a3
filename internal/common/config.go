package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Patterns PatternsConfig
	Database DatabaseConfig
	Export   ExportConfig
	Ingest   IngestConfig
}

// PatternsConfig locates the vendor pattern registry.
type PatternsConfig struct {
	Path string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	DialTimeout     time.Duration
}

// ExportConfig holds workbook export configuration
type ExportConfig struct {
	Path string
}

// IngestConfig holds inbox-related configuration
type IngestConfig struct {
	InboxDir    string
	Debounce    time.Duration
	InitialScan bool
	Workers     int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Patterns: PatternsConfig{
			Path: getEnv("PATTERNS_PATH", "config/patterns.json"),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Export: ExportConfig{
			Path: getEnv("EXPORT_PATH", ""),
		},
		Ingest: IngestConfig{
			InboxDir:    getEnv("INBOX_DIR", ""),
			Debounce:    getEnvAsDuration("INBOX_DEBOUNCE", 2*time.Second),
			InitialScan: getEnvAsBool("INBOX_INITIAL_SCAN", true),
			Workers:     getEnvAsInt("PIPELINE_WORKERS", 4),
		},
	}
}

// Helper functions for environment variable parsing
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
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Patterns.Path == "" {
		return NewAppError("CONFIG_ERROR", "PATTERNS_PATH is required", ErrConfig)
	}
	if c.Database.DSN == "" && c.Export.Path == "" {
		return NewAppError("CONFIG_ERROR", "at least one of DB_URL or EXPORT_PATH is required", ErrConfig)
	}
	return nil
}
