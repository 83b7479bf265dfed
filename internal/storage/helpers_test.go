package storage

import (
	"fmt"
	"testing"

	"github.com/thisdougb/fleetcheck/internal/record"
)

func testRecords(n int) []record.HealthRecord {
	records := make([]record.HealthRecord, n)
	for i := range records {
		r := record.HealthRecord{
			Timestamp:   fmt.Sprintf("2025-01-02T10:00:%02d.000000", i),
			Server:      fmt.Sprintf("web%02d", i%3),
			Environment: "prod",
			IsUp:        i%4 != 3,
			Status:      record.StatusGood,
		}
		if r.IsUp {
			r.CPU = record.Reading(i * 7 % 101)
			r.Disk = record.Reading(i * 13 % 101)
		} else {
			r.Status = record.StatusCritical
		}
		records[i] = r
	}
	return records
}

func assertSameRecords(t *testing.T, got, want []record.HealthRecord) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
