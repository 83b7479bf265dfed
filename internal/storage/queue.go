package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thisdougb/fleetcheck/internal/config"
	"github.com/thisdougb/fleetcheck/internal/record"
)

// WriteQueue batches appends in front of any backend. Records are written
// when the batch size is reached, on every flush interval, and on Stop.
type WriteQueue struct {
	backend       Backend
	flushInterval time.Duration
	batchSize     int
	queue         []record.HealthRecord
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewWriteQueue creates a queue for backend. Call Start before Enqueue.
func NewWriteQueue(backend Backend, flushInterval time.Duration, batchSize int) *WriteQueue {
	ctx, cancel := context.WithCancel(
		config.SetContextCorrelationId(context.Background(), "writequeue"))

	return &WriteQueue{
		backend:       backend,
		flushInterval: flushInterval,
		batchSize:     batchSize,
		queue:         make([]record.HealthRecord, 0, batchSize),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start begins background processing of the queue.
func (q *WriteQueue) Start() {
	q.wg.Add(1)
	go q.processQueue()
}

// Stop shuts down the background goroutine and flushes what is left.
func (q *WriteQueue) Stop() error {
	q.cancel()
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushQueueUnsafe()
}

// Enqueue adds records to the queue, flushing if the batch is full.
func (q *WriteQueue) Enqueue(records []record.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue = append(q.queue, records...)

	if len(q.queue) >= q.batchSize {
		return q.flushQueueUnsafe()
	}

	return nil
}

// ForceFlush writes all queued records now.
func (q *WriteQueue) ForceFlush() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.flushQueueUnsafe()
}

// QueueSize returns the current number of queued records (for testing)
func (q *WriteQueue) QueueSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

func (q *WriteQueue) processQueue() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.flushQueue()
		}
	}
}

func (q *WriteQueue) flushQueue() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.flushQueueUnsafe(); err != nil {
		config.LogError(q.ctx, fmt.Sprintf("failed to flush write queue: %v", err))
	}
}

// flushQueueUnsafe assumes the caller holds mu. Records stay queued if the
// backend write fails.
func (q *WriteQueue) flushQueueUnsafe() error {
	if len(q.queue) == 0 {
		return nil
	}

	if err := q.backend.AppendRecords(q.queue); err != nil {
		return fmt.Errorf("backend append failed: %w", err)
	}

	q.queue = q.queue[:0]
	return nil
}
