package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/creditscore/pkg/logger"
)

// Run executes a complete load run and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting credit score load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("applicants", config.NumApplicants),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Float64("legacyRatio", config.LegacyRatio))

	client := newHTTPClient(config)

	if err := client.get(ctx, "/health", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	reqs, err := generateApplicants(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("applicant generation failed: %w", err)
	}

	submitApplicants(ctx, config, client, reqs, stats)

	if config.SettleDelay > 0 {
		logger.Get().Info(ctx, "waiting for records to be persisted", logger.Duration("delay", config.SettleDelay))
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(config.SettleDelay):
		}
	}

	verifyErr := verifyBenchmarks(ctx, client, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d requests failed", stats.Failed, stats.Submitted)
	}
	logger.Get().Info(ctx, "load run completed successfully")
	return stats, nil
}

func logFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("benchmarks", stats.Benchmarks),
		logger.Int("sampleTotal", stats.SampleTotal),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", perSecond))
}
