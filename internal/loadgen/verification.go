package loadgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/creditscore/pkg/logger"
)

// ErrInconsistent is returned when the benchmarks violate their ordering bounds.
var ErrInconsistent = errors.New("benchmarks inconsistent")

type benchmarksResponse struct {
	Countries []Benchmark `json:"countries"`
}

// verifyBenchmarks fetches /benchmarks and checks every entry.
func verifyBenchmarks(ctx context.Context, client *HTTPClient, stats *Stats) error {
	var body benchmarksResponse
	if err := client.get(ctx, "/benchmarks", &body); err != nil {
		return fmt.Errorf("failed to fetch benchmarks: %w", err)
	}

	var errs []error
	for _, b := range body.Countries {
		if err := checkBenchmark(b); err != nil {
			errs = append(errs, err)
		}
		stats.SampleTotal += b.SampleSize
		logger.Get().Debug(ctx, "benchmark",
			logger.String("country", b.Country),
			logger.Int("median", b.MedianScore),
			logger.Int("sampleSize", b.SampleSize))
	}
	stats.Benchmarks = len(body.Countries)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInconsistent, errors.Join(errs...))
	}
	return nil
}

func checkBenchmark(b Benchmark) error {
	switch {
	case b.SampleSize <= 0:
		return fmt.Errorf("%s: sample size %d", b.Country, b.SampleSize)
	case b.P10 < minScore || b.P90 > maxScore:
		return fmt.Errorf("%s: percentiles outside [%d, %d]", b.Country, minScore, maxScore)
	case b.P10 > b.MedianScore || b.MedianScore > b.P90:
		return fmt.Errorf("%s: p10 %d, median %d, p90 %d out of order", b.Country, b.P10, b.MedianScore, b.P90)
	}
	return nil
}
