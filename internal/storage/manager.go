package storage

import (
	"errors"
	"fmt"

	"github.com/thisdougb/fleetcheck/internal/record"
)

// Manager coordinates log store operations between the simulator, the
// report pass and the configured backend.
type Manager struct {
	backend Backend
	queue   *WriteQueue // nil when appends go straight to the backend
}

// NewManager creates a manager that writes directly to backend.
func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// NewQueuedManager creates a manager whose appends are batched.
func NewQueuedManager(backend Backend, cfg *Config) *Manager {
	queue := NewWriteQueue(backend, cfg.FlushInterval, cfg.BatchSize)
	queue.Start()

	return &Manager{backend: backend, queue: queue}
}

// NewManagerFromConfig creates a manager for the backend named in cfg.
// SQLite appends are batched; the flat log is written line by line so it
// can be tailed while the simulator runs.
func NewManagerFromConfig(cfg *Config) (*Manager, error) {
	switch cfg.Kind {
	case KindFile:
		return NewManager(NewFileBackend(cfg.LogPath)), nil
	case KindMemory:
		return NewManager(NewMemoryBackend()), nil
	case KindSQLite:
		backend, err := NewSQLiteBackend(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		if cfg.BatchSize > 1 {
			return NewQueuedManager(backend, cfg), nil
		}
		return NewManager(backend), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Kind)
}

// Append stores one check.
func (m *Manager) Append(r record.HealthRecord) error {
	return m.AppendAll([]record.HealthRecord{r})
}

// AppendAll stores checks in order.
func (m *Manager) AppendAll(records []record.HealthRecord) error {
	if m.queue != nil {
		return m.queue.Enqueue(records)
	}
	return m.backend.AppendRecords(records)
}

// Load flushes anything queued and reads the full log.
func (m *Manager) Load() (LoadResult, error) {
	if m.queue != nil {
		if err := m.queue.ForceFlush(); err != nil {
			return LoadResult{}, err
		}
	}
	return m.backend.ReadRecords()
}

// Backup writes a dated copy of the store. Only SQLite stores support it.
func (m *Manager) Backup(cfg *BackupConfig) (string, error) {
	sqlite, ok := m.backend.(*SQLiteBackend)
	if !ok {
		return "", errors.New("backups need the sqlite store")
	}
	if m.queue != nil {
		if err := m.queue.ForceFlush(); err != nil {
			return "", err
		}
	}
	return sqlite.CreateBackup(cfg)
}

// Backend returns the underlying backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Close flushes pending appends and closes the backend.
func (m *Manager) Close() error {
	var err error
	if m.queue != nil {
		err = m.queue.Stop()
	}
	return errors.Join(err, m.backend.Close())
}
