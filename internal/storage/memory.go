package storage

import (
	"sync"

	"github.com/thisdougb/fleetcheck/internal/record"
)

// MemoryBackend implements Backend interface using in-memory storage.
// Used for tests and for dry runs of the simulator.
type MemoryBackend struct {
	mu      sync.RWMutex
	storage []record.HealthRecord
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		storage: make([]record.HealthRecord, 0),
	}
}

// AppendRecords stores records at the end of the log.
func (m *MemoryBackend) AppendRecords(records []record.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage = append(m.storage, records...)
	return nil
}

// ReadRecords returns a copy of everything appended so far.
func (m *MemoryBackend) ReadRecords() (LoadResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return LoadResult{Records: append([]record.HealthRecord(nil), m.storage...)}, nil
}

// Close performs cleanup for memory backend
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage = nil
	return nil
}

// Len returns the number of stored records (for testing)
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.storage)
}
