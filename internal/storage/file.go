package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/thisdougb/fleetcheck/internal/record"
)

// FileBackend is the flat text log: one comma separated line per check,
// appended to the end of the file.
type FileBackend struct {
	path string
	mu   sync.Mutex
	file *os.File // opened on first append
}

// NewFileBackend returns a backend for the log at path. The file is not
// touched until the first append or read.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// AppendRecords writes one line per record.
func (f *FileBackend) AppendRecords(records []record.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		f.file = file
	}

	for _, r := range records {
		if _, err := f.file.WriteString(record.Format(r) + "\n"); err != nil {
			return fmt.Errorf("failed to append record: %w", err)
		}
	}
	return nil
}

// ReadRecords decodes the whole log. Bad lines end up in Malformed.
func (f *FileBackend) ReadRecords() (LoadResult, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	records, malformed, err := record.ReadAll(file)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read log file: %w", err)
	}

	return LoadResult{Records: records, Malformed: malformed}, nil
}

// Close closes the append handle, if one was opened.
func (f *FileBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
