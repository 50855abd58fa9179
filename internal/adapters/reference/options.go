package reference

import (
	"time"

	"github.com/okian/creditscore/pkg/logger"
)

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithInlineJSON sets an inline dataset that takes precedence over the file.
func WithInlineJSON(raw string) Option {
	return func(p *Provider) {
		p.inline = raw
	}
}

// WithFile sets the dataset file. Relative paths resolve against the working
// directory.
func WithFile(path string) Option {
	return func(p *Provider) {
		if path != "" {
			p.path = path
		}
	}
}

// WithTTL sets how long a loaded dataset is served before it is reloaded.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl >= 0 {
			p.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}
