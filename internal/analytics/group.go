package analytics

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thisdougb/fleetcheck/internal/record"
)

// KeyFunc picks the bucket key for a record.
type KeyFunc func(record.HealthRecord) string

func ByServer(r record.HealthRecord) string      { return r.Server }
func ByEnvironment(r record.HealthRecord) string { return r.Environment }
func ByStatus(r record.HealthRecord) string      { return string(r.Status) }

// Dimension names a grouping key.
type Dimension string

const (
	DimensionServer      Dimension = "server"
	DimensionEnvironment Dimension = "environment"
	DimensionStatus      Dimension = "status"
)

// KeyFunc returns the key function for d.
func (d Dimension) KeyFunc() (KeyFunc, error) {
	switch d {
	case DimensionServer:
		return ByServer, nil
	case DimensionEnvironment:
		return ByEnvironment, nil
	case DimensionStatus:
		return ByStatus, nil
	}
	return nil, fmt.Errorf("unknown grouping dimension %q", d)
}

// Bucket holds the records that share one key, in source order.
type Bucket struct {
	Key     string
	Records []record.HealthRecord
}

// Servers returns the distinct servers in the bucket, sorted.
func (b *Bucket) Servers() []string {
	seen := make(map[string]struct{})
	for _, r := range b.Records {
		seen[r.Server] = struct{}{}
	}

	servers := make([]string, 0, len(seen))
	for s := range seen {
		servers = append(servers, s)
	}
	sort.Strings(servers)
	return servers
}

// Metrics computes the summary for this bucket.
func (b *Bucket) Metrics() MetricsSummary {
	return ComputeMetrics(b)
}

// Buckets is an ordered mapping of key to bucket. Iteration follows the
// order in which each key was first seen.
type Buckets struct {
	order []*Bucket
	index map[string]*Bucket
}

func newBuckets() *Buckets {
	return &Buckets{index: make(map[string]*Bucket)}
}

func (bs *Buckets) add(key string, r record.HealthRecord) {
	b, ok := bs.index[key]
	if !ok {
		b = &Bucket{Key: key}
		bs.index[key] = b
		bs.order = append(bs.order, b)
	}
	b.Records = append(b.Records, r)
}

// Len returns the number of buckets.
func (bs *Buckets) Len() int {
	return len(bs.order)
}

// Keys returns bucket keys in first-seen order.
func (bs *Buckets) Keys() []string {
	keys := make([]string, len(bs.order))
	for i, b := range bs.order {
		keys[i] = b.Key
	}
	return keys
}

// Get returns the bucket for key.
func (bs *Buckets) Get(key string) (*Bucket, bool) {
	b, ok := bs.index[key]
	return b, ok
}

// All returns the buckets in first-seen order.
func (bs *Buckets) All() []*Bucket {
	return append([]*Bucket(nil), bs.order...)
}

// GroupBy partitions records in one pass. Buckets are created the first
// time a key is seen; nothing is sorted, filtered or deduplicated.
func GroupBy(records []record.HealthRecord, keyFn KeyFunc) *Buckets {
	bs := newBuckets()
	for _, r := range records {
		bs.add(keyFn(r), r)
	}
	return bs
}

// GroupAll groups the same records along several dimensions at once. Each
// pass only reads records, so the passes run concurrently.
func GroupAll(ctx context.Context, records []record.HealthRecord, dims ...Dimension) (map[Dimension]*Buckets, error) {
	keyFns := make([]KeyFunc, len(dims))
	for i, dim := range dims {
		keyFn, err := dim.KeyFunc()
		if err != nil {
			return nil, err
		}
		keyFns[i] = keyFn
	}

	var mu sync.Mutex
	result := make(map[Dimension]*Buckets, len(dims))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dims {
		dim := dim
		keyFn := keyFns[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bs := GroupBy(records, keyFn)

			mu.Lock()
			result[dim] = bs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
