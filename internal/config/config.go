// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DataDir  string // Base directory for the sqlite databases (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// CORSOrigin is the dashboard origin allowed to call the API.
	CORSOrigin string

	// RateLimitRPS / RateLimitBurst bound per-client request rates.
	RateLimitRPS   float64
	RateLimitBurst int

	// SnapshotRetentionDays controls how long wallet snapshots are kept.
	SnapshotRetentionDays int

	Backup *BackupConfig
}

// BackupConfig holds S3 backup configuration. Backups are disabled when no
// bucket is configured.
type BackupConfig struct {
	Enabled  bool
	Bucket   string
	Prefix   string
	Endpoint string // Optional custom endpoint (S3-compatible storage)
	Region   string
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("SOVEREIGN_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	port, err := getEnvInt("SOVEREIGN_PORT", 8090)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvInt("SOVEREIGN_SNAPSHOT_RETENTION_DAYS", 1825) // 5 years of chart history
	if err != nil {
		return nil, err
	}
	if retention < 1 {
		return nil, fmt.Errorf("SOVEREIGN_SNAPSHOT_RETENTION_DAYS must be >= 1, got %d", retention)
	}
	rps, err := getEnvFloat("SOVEREIGN_RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("SOVEREIGN_RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	backupBucket := getEnv("SOVEREIGN_BACKUP_BUCKET", "")

	return &Config{
		DataDir:               absDataDir,
		Port:                  port,
		LogLevel:              getEnv("SOVEREIGN_LOG_LEVEL", "info"),
		DevMode:               getEnvBool("SOVEREIGN_DEV_MODE", false),
		CORSOrigin:            getEnv("SOVEREIGN_CORS_ORIGIN", "*"),
		RateLimitRPS:          rps,
		RateLimitBurst:        burst,
		SnapshotRetentionDays: retention,
		Backup: &BackupConfig{
			Enabled:  backupBucket != "",
			Bucket:   backupBucket,
			Prefix:   getEnv("SOVEREIGN_BACKUP_PREFIX", "backups"),
			Endpoint: getEnv("SOVEREIGN_BACKUP_ENDPOINT", ""),
			Region:   getEnv("SOVEREIGN_BACKUP_REGION", "auto"),
		},
	}, nil
}

// ConfigDBPath returns the path of config.db (settings, badge history).
func (c *Config) ConfigDBPath() string {
	return filepath.Join(c.DataDir, "config.db")
}

// HistoryDBPath returns the path of history.db (wallet snapshots).
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %q", key, value)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
