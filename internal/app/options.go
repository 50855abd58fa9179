package service

import (
	"time"

	"github.com/okian/creditscore/internal/adapters/reference"
	"github.com/okian/creditscore/internal/adapters/repository"
	"github.com/okian/creditscore/internal/domain/dedupe"
	"github.com/okian/creditscore/internal/domain/scoring"
	"github.com/okian/creditscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecordsFile sets the JSONL log used when no store is injected.
func WithRecordsFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.recordsFile = path
		}
	}
}

// WithStore injects the record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer injects the scoring engine.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithDeduper injects the idempotency key tracker.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithDedupeSize bounds the default idempotency key tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithPersistWorkers sets the number of persistence workers. Zero makes
// appends synchronous.
func WithPersistWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.persistWorkers = n
		}
	}
}

// WithPersistQueueSize bounds records waiting for a persistence worker.
func WithPersistQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.persistQueueSize = size
		}
	}
}

// WithReferenceProvider injects the reference benchmark provider.
func WithReferenceProvider(p *reference.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.reference = p
		}
	}
}

// WithReferenceOptions configures the default reference provider.
func WithReferenceOptions(opts ...reference.Option) Option {
	return func(s *Service) {
		s.referenceOpts = append(s.referenceOpts, opts...)
	}
}

// WithReferenceWatch invalidates the reference cache when its file changes.
func WithReferenceWatch(enabled bool) Option {
	return func(s *Service) {
		s.referenceWatch = enabled
	}
}

// WithClock sets the clock used to timestamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
