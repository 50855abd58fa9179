package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/creditscore/internal/loadgen"
	"github.com/okian/creditscore/pkg/logger"
)

// Default configuration constants.
const (
	defaultApplicants  = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultSettle      = time.Second
	defaultLegacyRatio = 0.25
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:3000", "Base URL of the service")
		applicants = flag.Int("applicants", defaultApplicants, "Number of applicants to score")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", defaultSettle, "Pause before reading benchmarks")
		legacy     = flag.Float64("legacy", defaultLegacyRatio, "Share of requests sent with Spanish field names")
		logFormat  = flag.String("log-format", "text", "Log format: text or json")
		verbose    = flag.Bool("verbose", false, "Log every failed request")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &loadgen.Config{
		BaseURL:       *baseURL,
		NumApplicants: *applicants,
		Workers:       max(*workers, 1),
		Timeout:       *timeout,
		SettleDelay:   *settle,
		LegacyRatio:   *legacy,
		Verbose:       *verbose,
	}

	if _, err := loadgen.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
