package storage

import (
	"database/sql"
	"fmt"
)

// SQLiteMigration represents a database schema migration for SQLite
type SQLiteMigration struct {
	Version int
	Up      string
	Down    string // Optional rollback SQL
}

// sqliteMigrations contains all SQLite database migrations in chronological order
var sqliteMigrations = []SQLiteMigration{
	{
		Version: 1,
		Up: `CREATE TABLE health_checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			server TEXT NOT NULL,
			environment TEXT NOT NULL,
			is_up INTEGER NOT NULL,
			cpu_usage INTEGER,
			disk_usage INTEGER,
			status TEXT NOT NULL,
			created_at INTEGER DEFAULT (strftime('%s', 'now'))
		);`,
		Down: `DROP TABLE IF EXISTS health_checks;`,
	},
	{
		Version: 2,
		Up: `CREATE INDEX idx_health_checks_server ON health_checks(server);
		CREATE INDEX idx_health_checks_environment ON health_checks(environment);`,
		Down: `DROP INDEX IF EXISTS idx_health_checks_server;
		DROP INDEX IF EXISTS idx_health_checks_environment;`,
	},
}

// runSQLiteMigrations applies all pending SQLite migrations to the database
func runSQLiteMigrations(db *sql.DB) error {
	if err := createSQLiteMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := getCurrentSQLiteVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range sqliteMigrations {
		if migration.Version <= currentVersion {
			continue // Migration already applied
		}

		if err := applySQLiteMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration version %d: %w", migration.Version, err)
		}
	}

	return nil
}

// createSQLiteMigrationsTable creates the schema_migrations table for tracking applied migrations
func createSQLiteMigrationsTable(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	)`

	_, err := db.Exec(query)
	return err
}

// getCurrentSQLiteVersion returns the highest applied migration version
func getCurrentSQLiteVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySQLiteMigration applies a single migration within a transaction
func applySQLiteMigration(db *sql.DB, migration SQLiteMigration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.Up); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// GetSQLiteSchemaVersion returns the current schema version (for testing/debugging)
func GetSQLiteSchemaVersion(db *sql.DB) (int, error) {
	return getCurrentSQLiteVersion(db)
}
