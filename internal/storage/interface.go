package storage

import "github.com/thisdougb/fleetcheck/internal/record"

// Backend defines the interface for all log store implementations. Records
// are only ever appended, and read back in the order they were appended.
type Backend interface {
	AppendRecords(records []record.HealthRecord) error
	ReadRecords() (LoadResult, error)
	Close() error
}

// LoadResult is everything read from a store. Malformed lines are reported
// here rather than failing the whole read.
type LoadResult struct {
	Records   []record.HealthRecord
	Malformed []*record.MalformedRecordError
}
