package repository

import (
	"context"
	"strings"

	"github.com/okian/creditscore/internal/domain/model"
)

// Aggregator derives per-country benchmarks from a Store. Nothing is cached:
// every call rescans the full log, so results always reflect the records
// visible at read time.
type Aggregator struct {
	store Store
}

// NewAggregator creates an aggregator over store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// ForCountry returns the benchmark for code, or false when no record matches.
// The returned country is upper-cased, while storage keys are lower-case.
func (a *Aggregator) ForCountry(ctx context.Context, code string) (model.Benchmark, bool, error) {
	recs, err := a.store.FilterByCountry(ctx, code)
	if err != nil {
		return model.Benchmark{}, false, err
	}
	stats, ok := ComputeStats(scoresOf(recs))
	if !ok {
		return model.Benchmark{}, false, nil
	}
	return model.Benchmark{Country: strings.ToUpper(code), Stats: stats}, true, nil
}

// All returns a benchmark for every observed country, keyed by the
// lower-cased country. The log is read once for the whole snapshot.
func (a *Aggregator) All(ctx context.Context) (map[string]model.Benchmark, error) {
	recs, err := a.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	byCountry := make(map[string][]float64)
	for _, r := range recs {
		key := r.CountryKey()
		byCountry[key] = append(byCountry[key], float64(r.Score))
	}

	out := make(map[string]model.Benchmark, len(byCountry))
	for country, scores := range byCountry {
		stats, ok := ComputeStats(scores)
		if !ok {
			continue
		}
		out[country] = model.Benchmark{Country: strings.ToUpper(country), Stats: stats}
	}
	return out, nil
}

func scoresOf(recs []model.Record) []float64 {
	scores := make([]float64, len(recs))
	for i, r := range recs {
		scores[i] = float64(r.Score)
	}
	return scores
}
