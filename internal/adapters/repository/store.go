// Package repository persists scoring records and derives benchmarks from them.
package repository

import (
	"context"

	"github.com/okian/creditscore/internal/domain/model"
)

// Store is an append-only log of anonymized scoring records.
type Store interface {
	// Append adds one record to the end of the log.
	Append(ctx context.Context, rec model.Record) error

	// ReadAll returns every record in append order. Malformed entries are skipped.
	ReadAll(ctx context.Context) ([]model.Record, error)

	// FilterByCountry returns the records whose country matches code,
	// case-insensitively. An empty code matches nothing.
	FilterByCountry(ctx context.Context, code string) ([]model.Record, error)

	// ListCountries returns the distinct lower-cased countries in first-seen order.
	ListCountries(ctx context.Context) ([]string, error)
}
