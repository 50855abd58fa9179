// Package config defines service configuration and its defaults.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// RecordsFile is the append-only JSONL log of scored applicants.
	RecordsFile string `koanf:"records_file"`

	// BenchmarksJSON is an inline reference dataset. When set and valid it
	// takes precedence over BenchmarksFile.
	BenchmarksJSON string `koanf:"benchmarks_json"`

	// BenchmarksFile is the reference dataset on disk.
	BenchmarksFile string `koanf:"benchmarks_file"`

	// BenchmarksCacheTTL bounds how long the reference dataset is cached.
	BenchmarksCacheTTL time.Duration `koanf:"benchmarks_cache_ttl"`

	// BenchmarksWatch invalidates the reference cache when the file changes.
	BenchmarksWatch bool `koanf:"benchmarks_watch"`

	// DedupeSize bounds the number of remembered idempotency keys.
	DedupeSize int `koanf:"dedupe_size"`

	// PersistWorkers is the number of goroutines appending records. Zero
	// makes appends synchronous.
	PersistWorkers int `koanf:"persist_workers"`

	// PersistQueueSize bounds records waiting to be appended.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// RecordsMaxLimit caps GET /records?limit.
	RecordsMaxLimit int `koanf:"records_max_limit"`

	// RecordsDefaultLimit applies when limit is absent or invalid.
	RecordsDefaultLimit int `koanf:"records_default_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":3000",
		RecordsFile:         "data/records.jsonl",
		BenchmarksFile:      "data/benchmarks.json",
		BenchmarksCacheTTL:  5 * time.Minute,
		DedupeSize:          50_000,
		PersistWorkers:      2,
		PersistQueueSize:    10_000,
		RecordsMaxLimit:     200,
		RecordsDefaultLimit: 50,
	}
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RecordsFile == "":
		return fmt.Errorf("%w: records_file must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.RecordsMaxLimit < 1:
		return fmt.Errorf("%w: records_max_limit must be at least 1", ErrInvalidConfig)
	case c.RecordsDefaultLimit < 1 || c.RecordsDefaultLimit > c.RecordsMaxLimit:
		return fmt.Errorf("%w: records_default_limit must be within [1, %d]", ErrInvalidConfig, c.RecordsMaxLimit)
	case c.PersistWorkers < 0:
		return fmt.Errorf("%w: persist_workers must not be negative", ErrInvalidConfig)
	case c.BenchmarksCacheTTL < 0:
		return fmt.Errorf("%w: benchmarks_cache_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}
