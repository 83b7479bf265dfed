package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thisdougb/fleetcheck/internal/record"
)

// SQLiteBackend implements Backend interface using SQLite database. Rows are
// read back in insertion order, so it behaves like the flat log.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// AppendRecords inserts the batch in one transaction.
func (s *SQLiteBackend) AppendRecords(records []record.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO health_checks
		(timestamp, server, environment, is_up, cpu_usage, disk_usage, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.Timestamp,
			r.Server,
			r.Environment,
			r.IsUp,
			usageToNull(r.CPU),
			usageToNull(r.Disk),
			string(r.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert health check: %w", err)
		}
	}

	return tx.Commit()
}

// ReadRecords returns every stored check in insertion order.
func (s *SQLiteBackend) ReadRecords() (LoadResult, error) {
	rows, err := s.db.Query(`SELECT timestamp, server, environment, is_up, cpu_usage, disk_usage, status
		FROM health_checks ORDER BY id ASC`)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to query health checks: %w", err)
	}
	defer rows.Close()

	var result LoadResult
	for rows.Next() {
		var r record.HealthRecord
		var cpu, disk sql.NullInt64
		var status string

		if err := rows.Scan(&r.Timestamp, &r.Server, &r.Environment, &r.IsUp, &cpu, &disk, &status); err != nil {
			return LoadResult{}, fmt.Errorf("failed to scan health check: %w", err)
		}
		r.CPU = nullToUsage(cpu)
		r.Disk = nullToUsage(disk)
		r.Status = record.Status(status)

		result.Records = append(result.Records, r)
	}

	if err := rows.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Close closes the database connection
func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateBackup creates a backup of the SQLite database using the existing connection
// This avoids file locking issues by using the same database connection
func (s *SQLiteBackend) CreateBackup(config *BackupConfig) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("no database connection available")
	}

	return BackupDatabase(s.db, config)
}

func usageToNull(u record.Usage) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(u.Value), Valid: u.Present}
}

func nullToUsage(n sql.NullInt64) record.Usage {
	if !n.Valid {
		return record.Absent()
	}
	return record.Reading(int(n.Int64))
}
