package loadgen

import "os"

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Credit Score Load Generator
===========================

Scores random applicants against a running service and checks the
resulting country benchmarks.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -applicants int
        Number of applicants to score (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        Pause before reading benchmarks (default 1s)
  -legacy float
        Share of requests sent with Spanish field names (default 0.25)
  -log-format string
        Log format: text or json (default "text")
  -verbose
        Log every failed request
  -help
        Show this help message

Examples:
  go run ./cmd/loadgen -applicants 5000 -workers 16
  go run ./cmd/loadgen -url http://localhost:8080 -legacy 1
`)
}
