package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix = "fleetcheck_"
	backupSuffix = ".db"
)

// BackupDatabase creates a backup of the database using SQLite VACUUM INTO,
// then applies the retention policy. Returns the backup file path.
func BackupDatabase(db *sql.DB, config *BackupConfig) (string, error) {
	if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	date := time.Now().Format("20060102")
	backupPath := filepath.Join(config.BackupDir, backupPrefix+date+backupSuffix)

	// VACUUM INTO refuses to overwrite, so replace today's backup
	if _, err := os.Stat(backupPath); err == nil {
		if err := os.Remove(backupPath); err != nil {
			return "", fmt.Errorf("failed to remove existing backup: %w", err)
		}
	}

	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if err := CleanupBackups(config); err != nil {
		return backupPath, fmt.Errorf("backup succeeded but cleanup failed: %w", err)
	}

	return backupPath, nil
}

// CleanupBackups removes backups dated more than RetentionDays days ago
func CleanupBackups(config *BackupConfig) error {
	files, err := os.ReadDir(config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	// whole days: a backup dated on the cutoff day is kept, so today's
	// backup survives a retention of 0
	cutoff, _ := backupDate(backupPrefix + time.Now().AddDate(0, 0, -config.RetentionDays).Format("20060102") + backupSuffix)

	for _, file := range files {
		fileDate, ok := backupDate(file.Name())
		if !ok || !fileDate.Before(cutoff) {
			continue
		}

		filePath := filepath.Join(config.BackupDir, file.Name())
		if err := os.Remove(filePath); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", file.Name(), err)
		}
	}

	return nil
}

// ListBackups returns backup file names, oldest first
func ListBackups(config *BackupConfig) ([]string, error) {
	files, err := os.ReadDir(config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []string{}
	for _, file := range files {
		if _, ok := backupDate(file.Name()); ok {
			backups = append(backups, file.Name())
		}
	}

	// filename order is date order
	sort.Strings(backups)
	return backups, nil
}

// RestoreDatabase copies a backup over the database at targetDBPath.
// The target must not be open.
func RestoreDatabase(backupFileName string, targetDBPath string, config *BackupConfig) error {
	backupPath := filepath.Join(config.BackupDir, backupFileName)

	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(targetDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := copyFile(backupPath, targetDBPath); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	return nil
}

func backupDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}
	datePart := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)

	t, err := time.Parse("20060102", datePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func copyFile(src, dst string) (err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dstFile.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = dstFile.ReadFrom(srcFile)
	return err
}
