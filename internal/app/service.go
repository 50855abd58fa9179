// Package service wires the scoring engine, record log and reference data
// into the operations the HTTP API exposes.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/creditscore/internal/adapters/mq/queue"
	"github.com/okian/creditscore/internal/adapters/mq/worker"
	"github.com/okian/creditscore/internal/adapters/reference"
	"github.com/okian/creditscore/internal/adapters/repository"
	"github.com/okian/creditscore/internal/domain/dedupe"
	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/internal/domain/scoring"
	"github.com/okian/creditscore/pkg/logger"
	"github.com/okian/creditscore/pkg/metrics"
)

// ErrNotStarted is returned by operations that need Start to have run.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the credit score system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	aggregator *repository.Aggregator
	scorer     scoring.Scorer
	deduper    dedupe.Deduper
	reference  *reference.Provider
	queue      *queue.RecordQueue
	pool       *worker.Pool

	// Configuration
	recordsFile      string
	referenceOpts    []reference.Option
	referenceWatch   bool
	dedupeSize       int
	persistWorkers   int
	persistQueueSize int
	now              func() time.Time

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		recordsFile:      "data/records.jsonl",
		dedupeSize:       50000,
		persistWorkers:   2,
		persistQueueSize: 10000,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the components that were not injected and starts the
// persistence workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting credit score service...")

	if s.store == nil {
		fs, err := repository.NewFileStore(s.recordsFile)
		if err != nil {
			return fmt.Errorf("open record store: %w", err)
		}
		s.store = fs
		s.logger.Info(ctx, "using file record store", logger.String("path", fs.Path()))
	}
	s.aggregator = repository.NewAggregator(s.store)
	if s.scorer == nil {
		s.scorer = scoring.NewEngine()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewKeyTracker(dedupe.WithCapacity(s.dedupeSize))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.reference == nil {
		s.reference = reference.NewProvider(s.referenceOpts...)
	}
	if s.referenceWatch {
		if err := s.reference.Watch(runCtx); err != nil {
			s.logger.Warn(ctx, "reference benchmarks will not be watched", logger.Error(err))
		}
	}

	if s.persistWorkers > 0 {
		s.queue = queue.NewRecordQueue(queue.WithCapacity(s.persistQueueSize))
		s.pool = worker.NewPool(s.queue, s.store,
			worker.WithWorkers(s.persistWorkers),
			worker.WithLogger(s.logger.Named("persist")),
			worker.WithFailureHandler(s.forgetFailed),
		)
		s.pool.Start(runCtx)
	}

	s.started = true
	s.logger.Info(ctx, "credit score service started",
		logger.Int("persistWorkers", s.persistWorkers),
		logger.Int("persistQueueSize", s.persistQueueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains queued records and releases background resources.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping credit score service...")

	var err error
	if s.pool != nil {
		err = s.pool.Shutdown(ctx)
	}
	if s.reference != nil {
		if cerr := s.reference.Close(); cerr != nil {
			s.logger.Warn(ctx, "error closing reference watcher", logger.Error(cerr))
		}
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "credit score service stopped")
	return err
}

// ScoreApplicant scores a validated applicant and records the anonymized
// outcome. Persistence problems are logged and never fail the call. A
// non-empty idempotency key that was already used skips persistence; a key
// whose record failed to persist, synchronously or in a worker, is released.
func (s *Service) ScoreApplicant(ctx context.Context, a model.Applicant, idempotencyKey string) (model.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Result{}, ErrNotStarted
	}

	res := s.scorer.Score(ctx, a)

	if idempotencyKey != "" && s.deduper.SeenAndRecord(ctx, idempotencyKey) {
		metrics.RecordIdempotentReplay()
		s.logger.Debug(ctx, "idempotent replay, record not persisted",
			logger.String("idempotencyKey", idempotencyKey),
		)
		return res, nil
	}

	rec := model.Record{
		TS:                 s.now().UnixMilli(),
		Score:              res.Score,
		RiskLevel:          res.RiskLevel,
		DefaultProbability: res.DefaultProbability,
		Country:            model.NormalizeCountry(a.Country),
	}
	if !s.persist(ctx, queue.Job{Record: rec, IdempotencyKey: idempotencyKey}) && idempotencyKey != "" {
		s.deduper.Forget(ctx, idempotencyKey)
	}
	return res, nil
}

// persist hands job to the workers, falling back to a synchronous append when
// the queue cannot take it. It reports false only when a synchronous append
// fails; queued jobs that fail later are handled by forgetFailed.
func (s *Service) persist(ctx context.Context, job queue.Job) bool {
	rec := job.Record
	if s.queue != nil {
		err := s.queue.Enqueue(ctx, job)
		if err == nil {
			return true
		}
		s.logger.Debug(ctx, "persist queue unavailable, appending synchronously", logger.Error(err))
	}

	if err := s.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn(ctx, "unable to persist record",
			logger.String("country", rec.Country),
			logger.Int("score", rec.Score),
			logger.Error(err),
		)
		return false
	}
	return true
}

// forgetFailed releases the idempotency key of a queued record that a worker
// could not append, so a retry with the same key is persisted.
func (s *Service) forgetFailed(ctx context.Context, job queue.Job, _ error) {
	if job.IdempotencyKey != "" {
		s.deduper.Forget(ctx, job.IdempotencyKey)
	}
}

// ExplainApplicant lists the factors behind an applicant's risk.
func (s *Service) ExplainApplicant(ctx context.Context, a model.Applicant) ([]model.Factor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.scorer.Explain(ctx, a), nil
}

// Records returns every stored record in append order.
func (s *Service) Records(ctx context.Context) ([]model.Record, error) {
	st, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return st.ReadAll(ctx)
}

// RecordsByCountry returns the records of one country, case-insensitively.
func (s *Service) RecordsByCountry(ctx context.Context, code string) ([]model.Record, error) {
	st, err := s.readStore()
	if err != nil {
		return nil, err
	}
	return st.FilterByCountry(ctx, code)
}

// Benchmarks returns the derived benchmark of every observed country, keyed by
// lower-cased country.
func (s *Service) Benchmarks(ctx context.Context) (map[string]model.Benchmark, error) {
	s.mu.RLock()
	agg := s.aggregator
	s.mu.RUnlock()

	if agg == nil {
		return nil, ErrNotStarted
	}
	return agg.All(ctx)
}

// BenchmarkForCountry returns the derived benchmark of one country, or false
// when it has no records.
func (s *Service) BenchmarkForCountry(ctx context.Context, code string) (model.Benchmark, bool, error) {
	s.mu.RLock()
	agg := s.aggregator
	s.mu.RUnlock()

	if agg == nil {
		return model.Benchmark{}, false, ErrNotStarted
	}
	return agg.ForCountry(ctx, code)
}

// ReferenceBenchmarks returns the static reference dataset.
func (s *Service) ReferenceBenchmarks(ctx context.Context) reference.Dataset {
	s.mu.RLock()
	ref := s.reference
	s.mu.RUnlock()

	if ref == nil {
		return reference.Dataset{}
	}
	return ref.Get(ctx)
}

// ReferenceBenchmark returns the reference entry for one country.
func (s *Service) ReferenceBenchmark(ctx context.Context, code string) (json.RawMessage, bool) {
	s.mu.RLock()
	ref := s.reference
	s.mu.RUnlock()

	if ref == nil {
		return nil, false
	}
	return ref.ByCountry(ctx, code)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"persistWorkers":   s.persistWorkers,
		"persistQueueSize": s.persistQueueSize,
		"dedupeSize":       s.dedupeSize,
	}
	if s.started {
		stats["idempotencyKeys"] = s.deduper.Len()
		if s.queue != nil {
			stats["queueLength"] = s.queue.Len()
		}
	}
	return stats
}

func (s *Service) readStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
