package scoring

import (
	"context"
	"time"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/metrics"
)

// Scorer is the contract the application layer depends on.
type Scorer interface {
	// Score computes the credit score of a validated applicant.
	Score(ctx context.Context, a model.Applicant) model.Result
	// Explain lists the factors behind an applicant's risk.
	Explain(ctx context.Context, a model.Applicant) []model.Factor
}

// Engine is the default Scorer. It delegates to the package-level pure
// functions and records scoring metrics.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score implements Scorer.
func (e *Engine) Score(_ context.Context, a model.Applicant) model.Result {
	start := time.Now()
	res := Score(a)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordApplicantScored(string(res.RiskLevel))
	return res
}

// Explain implements Scorer.
func (e *Engine) Explain(_ context.Context, a model.Applicant) []model.Factor {
	metrics.RecordFactorExplanation()
	return ExplainFactors(a)
}
