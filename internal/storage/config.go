package storage

import (
	"fmt"
	"time"

	"github.com/thisdougb/fleetcheck/internal/config"
)

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// BackupConfig holds backup-specific configuration
type BackupConfig struct {
	BackupDir     string
	RetentionDays int
}

// Config holds all configuration options for the log store
type Config struct {
	Kind          string
	LogPath       string
	DBPath        string
	FlushInterval time.Duration
	BatchSize     int
	Backup        BackupConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Kind:          config.StringValue("FLEET_STORE"),
		LogPath:       config.StringValue("FLEET_LOG_FILE"),
		DBPath:        config.StringValue("FLEET_DB_PATH"),
		FlushInterval: config.DurationValue("FLEET_FLUSH_INTERVAL"),
		BatchSize:     config.IntValue("FLEET_BATCH_SIZE"),
		Backup: BackupConfig{
			BackupDir:     config.StringValue("FLEET_BACKUP_DIR"),
			RetentionDays: config.IntValue("FLEET_BACKUP_RETENTION_DAYS"),
		},
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Backup.RetentionDays < 0 {
		cfg.Backup.RetentionDays = 0
	}

	switch cfg.Kind {
	case KindFile, KindSQLite, KindMemory:
	default:
		return nil, fmt.Errorf("unknown store %q (want file, sqlite or memory)", cfg.Kind)
	}

	return cfg, nil
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	return &Config{
		Kind:          KindMemory,
		DBPath:        ":memory:",
		FlushInterval: time.Second,
		BatchSize:     10,
	}
}
