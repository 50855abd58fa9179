// Package queue buffers scoring records on their way to the record store.
package queue

import (
	"context"
	"sync"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/metrics"
)

const defaultCapacity = 10000

// Job is one record waiting to be persisted, with the idempotency key of the
// request that produced it. The key is never written to the store.
type Job struct {
	Record         model.Record
	IdempotencyKey string
}

// Queue is a bounded, non-blocking hand-off between request handlers and
// persistence workers.
type Queue interface {
	// Enqueue adds job without blocking. It fails with ErrFull or ErrClosed.
	Enqueue(ctx context.Context, job Job) error

	// Jobs returns the receive side. It is closed by Close once drained.
	Jobs() <-chan Job

	// Len returns the number of waiting jobs.
	Len() int

	// Close stops accepting records. Records already queued stay readable.
	Close() error
}

// RecordQueue implements Queue with a buffered channel.
type RecordQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*RecordQueue)(nil)

// NewRecordQueue creates a queue with room for 10 000 records unless
// WithCapacity says otherwise.
func NewRecordQueue(opts ...Option) *RecordQueue {
	q := &RecordQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue implements Queue.
func (q *RecordQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_cancelled")
		return err
	}

	select {
	case q.jobs <- job:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError("full")
		return ErrFull
	}
}

// Jobs implements Queue.
func (q *RecordQueue) Jobs() <-chan Job {
	return q.jobs
}

// Len implements Queue.
func (q *RecordQueue) Len() int {
	return q.observe()
}

// Close implements Queue. It is safe to call more than once.
func (q *RecordQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobs)
	return nil
}

func (q *RecordQueue) observe() int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}
