package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBackupDatabase(t *testing.T) {
	tempDir := t.TempDir()
	backend := setupTestSQLiteBackend(t)
	defer backend.Close()

	backend.AppendRecords(testRecords(3))

	config := &BackupConfig{
		BackupDir:     filepath.Join(tempDir, "backups"),
		RetentionDays: 30,
	}

	path, err := backend.CreateBackup(config)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	expectedName := "fleetcheck_" + time.Now().Format("20060102") + ".db"
	if filepath.Base(path) != expectedName {
		t.Errorf("Expected backup %s, got %s", expectedName, filepath.Base(path))
	}

	// a second backup on the same day replaces the first
	if _, err := backend.CreateBackup(config); err != nil {
		t.Fatalf("second backup failed: %v", err)
	}

	backups, err := ListBackups(config)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("Expected 1 backup, got %v", backups)
	}
}

func TestBackupDatabase_ZeroRetentionKeepsToday(t *testing.T) {
	backend := setupTestSQLiteBackend(t)
	defer backend.Close()

	backend.AppendRecords(testRecords(2))

	config := &BackupConfig{BackupDir: filepath.Join(t.TempDir(), "backups"), RetentionDays: 0}
	yesterday := "fleetcheck_" + time.Now().AddDate(0, 0, -1).Format("20060102") + ".db"
	if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(config.BackupDir, yesterday), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := backend.CreateBackup(config)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("the backup just written should exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(config.BackupDir, yesterday)); !os.IsNotExist(err) {
		t.Error("yesterday's backup should be removed with zero retention")
	}
}

func TestCleanupBackups(t *testing.T) {
	backupDir := t.TempDir()
	config := &BackupConfig{BackupDir: backupDir, RetentionDays: 7}

	old := "fleetcheck_" + time.Now().AddDate(0, 0, -10).Format("20060102") + ".db"
	recent := "fleetcheck_" + time.Now().AddDate(0, 0, -1).Format("20060102") + ".db"
	for _, name := range []string{old, recent, "fleetcheck_notadate.db", "other.db"} {
		if err := os.WriteFile(filepath.Join(backupDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := CleanupBackups(config); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(backupDir, old)); !os.IsNotExist(err) {
		t.Error("old backup should be removed")
	}
	for _, kept := range []string{recent, "fleetcheck_notadate.db", "other.db"} {
		if _, err := os.Stat(filepath.Join(backupDir, kept)); err != nil {
			t.Errorf("%s should be kept", kept)
		}
	}
}

func TestCleanupBackups_MissingDir(t *testing.T) {
	config := &BackupConfig{BackupDir: filepath.Join(t.TempDir(), "none")}
	if err := CleanupBackups(config); err != nil {
		t.Errorf("missing dir should not be an error: %v", err)
	}
}

func TestListBackups(t *testing.T) {
	backupDir := t.TempDir()
	for _, name := range []string{"fleetcheck_20250103.db", "fleetcheck_20250101.db", "notes.txt"} {
		os.WriteFile(filepath.Join(backupDir, name), []byte("x"), 0644)
	}

	backups, err := ListBackups(&BackupConfig{BackupDir: backupDir})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"fleetcheck_20250101.db", "fleetcheck_20250103.db"}
	if !reflect.DeepEqual(backups, expected) {
		t.Errorf("Expected %v, got %v", expected, backups)
	}

	empty, err := ListBackups(&BackupConfig{BackupDir: filepath.Join(backupDir, "none")})
	if err != nil || len(empty) != 0 {
		t.Errorf("missing dir should list nothing: %v %v", empty, err)
	}
}

func TestRestoreDatabase(t *testing.T) {
	tempDir := t.TempDir()
	backend := setupTestSQLiteBackend(t)
	backend.AppendRecords(testRecords(2))

	config := &BackupConfig{BackupDir: filepath.Join(tempDir, "backups"), RetentionDays: 30}
	path, err := backend.CreateBackup(config)
	backend.Close()
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(tempDir, "restored", "fleet.db")
	if err := RestoreDatabase(filepath.Base(path), target, config); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	restored, err := NewSQLiteBackend(target)
	if err != nil {
		t.Fatal(err)
	}
	defer restored.Close()

	result, _ := restored.ReadRecords()
	assertSameRecords(t, result.Records, testRecords(2))

	err = RestoreDatabase("fleetcheck_19990101.db", target, config)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}
