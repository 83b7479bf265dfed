package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()

	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	return backend
}

func TestSQLiteBackend_NewBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	defer backend.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created")
	}

	version, err := GetSQLiteSchemaVersion(backend.db)
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if version != len(sqliteMigrations) {
		t.Fatalf("Expected schema version %d, got %d", len(sqliteMigrations), version)
	}
}

func TestSQLiteBackend_MigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		backend, err := NewSQLiteBackend(dbPath)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		backend.Close()
	}
}

func TestSQLiteBackend_AppendAndRead(t *testing.T) {
	backend := setupTestSQLiteBackend(t)
	defer backend.Close()

	records := testRecords(8)
	if err := backend.AppendRecords(records[:3]); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := backend.AppendRecords(records[3:]); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}

	result, err := backend.ReadRecords()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}

	// absent readings come back absent, not zero
	assertSameRecords(t, result.Records, records)
	if result.Records[3].CPU.Present || result.Records[3].IsUp {
		t.Errorf("down record lost its absent readings: %+v", result.Records[3])
	}
}

func TestSQLiteBackend_EmptyAppend(t *testing.T) {
	backend := setupTestSQLiteBackend(t)
	defer backend.Close()

	if err := backend.AppendRecords(nil); err != nil {
		t.Fatal(err)
	}
	result, err := backend.ReadRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 0 {
		t.Errorf("Expected no records, got %d", len(result.Records))
	}
}

func TestSQLiteBackend_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	backend.AppendRecords(testRecords(4))
	backend.Close()

	reopened, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	result, _ := reopened.ReadRecords()
	assertSameRecords(t, result.Records, testRecords(4))
}
