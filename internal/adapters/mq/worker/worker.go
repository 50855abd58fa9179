// Package worker drains queued scoring records into the record store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/creditscore/internal/adapters/mq/queue"
	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/logger"
	"github.com/okian/creditscore/pkg/metrics"
)

const defaultWorkers = 2

// Appender persists one record.
type Appender interface {
	Append(ctx context.Context, rec model.Record) error
}

// Source is the receive side of a record queue.
type Source interface {
	Jobs() <-chan queue.Job
	Close() error
}

// FailureHandler is told about every job whose record could not be appended.
type FailureHandler func(ctx context.Context, job queue.Job, err error)

// Pool runs a fixed number of workers that append queued records until the
// queue is closed and empty.
type Pool struct {
	source   Source
	appender Appender
	size     int
	logger   logger.Logger
	onFail   FailureHandler

	startOnce sync.Once
	wg        sync.WaitGroup
	done      chan struct{}
}

// NewPool creates a pool. Workers do not run until Start.
func NewPool(source Source, appender Appender, opts ...Option) *Pool {
	p := &Pool{
		source:   source,
		appender: appender,
		size:     defaultWorkers,
		logger:   logger.Get().Named("persist-pool"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Start launches the workers. Cancelling ctx abandons records still queued.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.wg.Add(p.size)
		for i := 0; i < p.size; i++ {
			go p.run(ctx, p.logger.Named("worker-"+strconv.Itoa(i)))
		}
		go func() {
			p.wg.Wait()
			close(p.done)
		}()
		metrics.UpdateWorkerCount(p.size)
	})
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.source.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	p.Start(ctx) // a pool that never started still drains

	select {
	case <-p.done:
		metrics.UpdateWorkerCount(0)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "persist pool shutdown timed out")
		return fmt.Errorf("persist pool shutdown: %w", ctx.Err())
	}
}

func (p *Pool) run(ctx context.Context, log logger.Logger) {
	defer p.wg.Done()
	jobs := p.source.Jobs()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			p.persist(ctx, log, job)
		}
	}
}

func (p *Pool) persist(ctx context.Context, log logger.Logger, job queue.Job) {
	rec := job.Record
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := p.appender.Append(ctx, rec); err != nil {
		metrics.RecordErrorByComponent("worker", "append")
		log.Warn(ctx, "unable to persist record",
			logger.String("country", rec.CountryKey()),
			logger.Int("score", rec.Score),
			logger.Error(err),
		)
		if p.onFail != nil {
			p.onFail(ctx, job, err)
		}
	}
}
