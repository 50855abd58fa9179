// Package reference serves the static reference benchmark dataset.
//
// The dataset is operator supplied, keyed by country and opaque to the
// service. It is unrelated to the benchmarks derived from scored records and
// the two are never merged.
package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/creditscore/pkg/logger"
	"github.com/okian/creditscore/pkg/metrics"
)

const (
	defaultTTL  = 5 * time.Minute
	defaultFile = "data/benchmarks.json"
)

// Dataset maps a lower-cased country code to its reference entry.
type Dataset map[string]json.RawMessage

// Provider loads the dataset on demand and caches it for a fixed TTL.
type Provider struct {
	inline string
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger

	mu       sync.Mutex
	data     Dataset
	loadedAt time.Time
	loaded   bool

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
}

// NewProvider creates a provider. Nothing is read until the first Get.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		path:   defaultFile,
		ttl:    defaultTTL,
		now:    time.Now,
		logger: logger.Get().Named("reference"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if abs, err := filepath.Abs(p.path); err == nil {
		p.path = abs
	}
	return p
}

// Get returns the cached dataset, reloading it once the TTL has elapsed.
// The returned map must not be modified.
func (p *Provider) Get(ctx context.Context) Dataset {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded || p.now().Sub(p.loadedAt) > p.ttl {
		p.data, _ = p.load(ctx)
		p.loadedAt = p.now()
		p.loaded = true
	}
	return p.data
}

// ByCountry returns the entry for code, matched case-insensitively.
func (p *Provider) ByCountry(ctx context.Context, code string) (json.RawMessage, bool) {
	if code == "" {
		return nil, false
	}
	entry, ok := p.Get(ctx)[strings.ToLower(code)]
	return entry, ok
}

// Reload loads the dataset immediately and resets the TTL. The error wraps
// ErrLoad when every source failed; the cache then holds an empty dataset.
func (p *Provider) Reload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := p.load(ctx)
	p.data = data
	p.loadedAt = p.now()
	p.loaded = true
	return err
}

// Invalidate drops the cached dataset so the next Get reloads it.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.loaded = false
	p.mu.Unlock()
}

// load must be called with p.mu held.
func (p *Provider) load(ctx context.Context) (Dataset, error) {
	if p.inline != "" {
		data, err := decode([]byte(p.inline))
		if err == nil {
			metrics.RecordReferenceReload("inline")
			return data, nil
		}
		p.logger.Warn(ctx, "invalid inline reference benchmarks, falling back to file", logger.Error(err))
	}

	raw, err := os.ReadFile(p.path)
	if err == nil {
		var data Dataset
		if data, err = decode(raw); err == nil {
			metrics.RecordReferenceReload("file")
			return data, nil
		}
	}
	err = fmt.Errorf("%w: %s: %v", ErrLoad, p.path, err)
	p.logger.Error(ctx, "failed to load reference benchmarks", logger.Error(err))
	metrics.RecordReferenceReload("empty")
	return Dataset{}, err
}

func decode(raw []byte) (Dataset, error) {
	var in map[string]json.RawMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make(Dataset, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}
