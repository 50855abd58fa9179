package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumApplicants int           // Number of applicants to score
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	SettleDelay   time.Duration // Pause before reading benchmarks
	LegacyRatio   float64       // Share of requests sent with Spanish keys
	Verbose       bool          // Log every failed request
}

// Applicant is the request body for POST /credit-score. Pointers let the
// generator leave optional fields out.
type Applicant struct {
	Age                    int     `json:"age"`
	MonthlyIncome          float64 `json:"monthly_income"`
	PaymentHistory         string  `json:"payment_history,omitempty"`
	ActiveDebts            int     `json:"active_debts"`
	CurrentJobTenureMonths int     `json:"current_job_tenure_months"`
	Country                string  `json:"country,omitempty"`
	HasCollateral          *bool   `json:"has_collateral,omitempty"`
}

// ScoreResponse is the body returned by POST /credit-score.
type ScoreResponse struct {
	Score              int     `json:"score"`
	RiskLevel          string  `json:"risk_level"`
	DefaultProbability float64 `json:"default_probability"`
	Recommendation     string  `json:"recommendation"`
}

// Benchmark is one entry of GET /benchmarks.
type Benchmark struct {
	Country      string `json:"country"`
	AverageScore int    `json:"average_score"`
	MedianScore  int    `json:"median_score"`
	P10          int    `json:"p10"`
	P90          int    `json:"p90"`
	SampleSize   int    `json:"sample_size"`
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Successful  int
	Rejected    int
	Failed      int
	Benchmarks  int
	SampleTotal int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
