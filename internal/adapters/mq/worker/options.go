package worker

import (
	"github.com/okian/creditscore/pkg/logger"
)

// Option applies a configuration option to a Pool.
type Option func(*Pool)

// WithWorkers sets how many goroutines drain the queue.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFailureHandler registers fn to run after a record fails to persist.
func WithFailureHandler(fn FailureHandler) Option {
	return func(p *Pool) {
		p.onFail = fn
	}
}
