package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/metrics"
)

const defaultFileMode fs.FileMode = 0o644

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions used when the log file is created.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithClock sets the clock used to stamp records that arrive without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// FileStore is a Store backed by a newline-delimited JSON file.
//
// Each Append is a single write on a file opened with O_APPEND, so concurrent
// appenders never interleave partial lines. Readers are not isolated from
// concurrent appends and may or may not observe an in-flight record.
type FileStore struct {
	path string
	mode fs.FileMode
	now  func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store writing to path, creating its directory.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("records file path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve records path: %w", err)
	}
	s := &FileStore{path: abs, mode: defaultFileMode, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create records directory: %w", err)
	}
	return s, nil
}

// Path returns the absolute path of the log file.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes rec as one JSON line. The country is lower-cased and an empty
// country is stored as "unknown"; a zero timestamp is stamped with the clock.
func (s *FileStore) Append(_ context.Context, rec model.Record) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
		if err != nil {
			metrics.RecordPersistenceFailure("append")
		}
	}()

	rec.Country = rec.CountryKey()
	if rec.TS == 0 {
		rec.TS = s.now().UnixMilli()
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrAppend, err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, s.mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAppend, err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrAppend, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrAppend, err)
	}
	metrics.RecordRecordPersisted()
	return nil
}

// ReadAll returns every well-formed record in append order. A missing file is
// an empty log. Blank, truncated or otherwise malformed lines are skipped, as
// are JSON values that are not objects.
func (s *FileStore) ReadAll(_ context.Context) ([]model.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Record{}, nil
	}
	if err != nil {
		metrics.RecordPersistenceFailure("read")
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	recs := make([]model.Record, 0, bytes.Count(raw, []byte{'\n'}))
	for _, line := range bytes.Split(raw, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] != '{' {
			metrics.RecordMalformedRecord()
			continue
		}
		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			metrics.RecordMalformedRecord()
			continue
		}
		recs = append(recs, rec)
	}
	metrics.UpdateRepositoryRecordsTotal(len(recs))
	return recs, nil
}

// FilterByCountry implements Store.
func (s *FileStore) FilterByCountry(ctx context.Context, code string) ([]model.Record, error) {
	if code == "" {
		return []model.Record{}, nil
	}
	all, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(code)
	out := make([]model.Record, 0)
	for _, r := range all {
		if r.CountryKey() == key {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListCountries implements Store.
func (s *FileStore) ListCountries(ctx context.Context) ([]string, error) {
	all, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range all {
		c := r.CountryKey()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
