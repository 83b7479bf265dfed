package fleetcheck

import (
	"io"

	"github.com/thisdougb/fleetcheck/internal/analytics"
	"github.com/thisdougb/fleetcheck/internal/record"
	"github.com/thisdougb/fleetcheck/internal/report"
)

type (
	HealthRecord         = record.HealthRecord
	Usage                = record.Usage
	Status               = record.Status
	MalformedRecordError = record.MalformedRecordError
	Bucket               = analytics.Bucket
	Buckets              = analytics.Buckets
	MetricsSummary       = analytics.MetricsSummary
	Dimension            = analytics.Dimension
)

const (
	StatusGood     = record.StatusGood
	StatusWarning  = record.StatusWarning
	StatusCritical = record.StatusCritical

	DimensionServer      = analytics.DimensionServer
	DimensionEnvironment = analytics.DimensionEnvironment
	DimensionStatus      = analytics.DimensionStatus
)

// ErrMalformedRecord matches every line decoding error.
var ErrMalformedRecord = record.ErrMalformedRecord

// ParseLine decodes one log line.
func ParseLine(line string) (HealthRecord, error) {
	return record.ParseLine(line)
}

// ReadLog decodes a whole log. Malformed lines are returned, not fatal.
func ReadLog(r io.Reader) ([]HealthRecord, []*MalformedRecordError, error) {
	return record.ReadAll(r)
}

// GroupBy partitions records along d, keeping first-seen key order.
func GroupBy(records []HealthRecord, d Dimension) (*Buckets, error) {
	keyFn, err := d.KeyFunc()
	if err != nil {
		return nil, err
	}
	return analytics.GroupBy(records, keyFn), nil
}

// ComputeMetrics summarizes one bucket.
func ComputeMetrics(b *Bucket) MetricsSummary {
	return analytics.ComputeMetrics(b)
}

// Render returns the report block for a bucket grouped along d.
func Render(b *Bucket, d Dimension) ([]string, error) {
	block, err := report.BlockFor(d)
	if err != nil {
		return nil, err
	}
	return block(b), nil
}
