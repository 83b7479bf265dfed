package config

import (
	"os"
	"strconv"
	"time"
)

var defaultValues = map[string]interface{}{
	// Log store
	"FLEET_LOG_FILE":       "server_check_log.txt", // Flat append log of health checks
	"FLEET_STORE":          "file",                 // file, sqlite or memory
	"FLEET_DB_PATH":        "./fleetcheck.db",      // SQLite database path
	"FLEET_FLUSH_INTERVAL": 5 * time.Second,        // How often queued checks are written
	"FLEET_BATCH_SIZE":     20,                     // Queued checks before a forced write

	// Simulator
	"FLEET_CHECK_INTERVAL":      5 * time.Second, // Pause between check cycles
	"FLEET_CPU_WARN_THRESHOLD":  80,              // CPU above this is a WARNING
	"FLEET_DISK_WARN_THRESHOLD": 85,              // Disk above this is a WARNING
	"FLEET_ROSTER_FILE":         "",              // Optional YAML roster

	// Backups (sqlite store only)
	"FLEET_BACKUP_DIR":            "./backups",
	"FLEET_BACKUP_RETENTION_DAYS": 30,

	"FLEET_DEBUG": false, // Enable debug logging
}

func StringValue(key string) string {
	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(string)).(string)
	}
	return ""
}

// IntValue gets an int value from the env or default
func IntValue(key string) int {

	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(int)).(int)
	}
	return 0
}

// BoolValue gets a bool value from the env or default
func BoolValue(key string) bool {

	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(bool)).(bool)
	}
	return false
}

// DurationValue gets a duration ("5s", "1m") from the env or default
func DurationValue(key string) time.Duration {

	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(time.Duration)).(time.Duration)
	}
	return 0
}

func getEnvVar(key string, fallback interface{}) interface{} {

	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	switch fallback.(type) {
	case string:
		return value
	case bool:
		valueAsBool, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return valueAsBool
	case int:
		valueAsInt, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return valueAsInt
	case time.Duration:
		valueAsDuration, err := time.ParseDuration(value)
		if err != nil || valueAsDuration <= 0 {
			return fallback
		}
		return valueAsDuration
	}
	return fallback
}
