// Package scoring implements the rule-based credit scoring engine.
//
// Score and ExplainFactors are pure: identical applicants always produce
// identical output, and neither performs I/O. Applicants are assumed to be
// validated by the caller.
package scoring

import (
	"math"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Score bounds and curve parameters. These constants are load-bearing for
// compatibility with previously persisted records; do not tune them.
const (
	baseScore = 650
	MinScore  = 300
	MaxScore  = 850

	incomePointsPerThousand = 8
	maxIncomePoints         = 60
	collateralPoints        = 10

	pdMidpoint = 1.5
	pdSpan     = 0.57
	pdFloor    = 0.03
	pdDecimals = 3
)

var paymentHistoryPoints = map[model.PaymentHistory]int{
	model.PaymentExcellent: 80,
	model.PaymentGood:      40,
	model.PaymentFair:      -20,
	model.PaymentPoor:      -80,
}

// Score computes score, default probability, risk level and recommendation.
func Score(a model.Applicant) model.Result {
	score := baseScore
	score += agePoints(a.Age)
	score += incomePoints(a.MonthlyIncome)
	score += paymentHistoryPoints[a.PaymentHistory] // unknown values add nothing
	score += debtPoints(a.ActiveDebts)
	score += tenurePoints(a.CurrentJobTenureMonths)
	if a.Collateralized() {
		score += collateralPoints
	}
	score = clamp(score, MinScore, MaxScore)

	risk := RiskFromScore(score)
	return model.Result{
		Score:              score,
		RiskLevel:          risk,
		DefaultProbability: DefaultProbability(score),
		Recommendation:     Recommendation(risk, a.Collateralized()),
	}
}

func agePoints(age int) int {
	switch {
	case age < 21:
		return -40
	case age < 25:
		return -20
	case age <= 35:
		return 10
	case age <= 60:
		return 5
	default:
		return -10
	}
}

// incomePoints gives 8 points per thousand of monthly income, capped at 60.
func incomePoints(monthlyIncome float64) int {
	points := math.Floor(monthlyIncome / 1000 * incomePointsPerThousand)
	return int(math.Min(math.Max(points, 0), maxIncomePoints))
}

func debtPoints(debts int) int {
	switch {
	case debts == 0:
		return 20
	case debts <= 2:
		return -5
	case debts <= 5:
		return -25
	default:
		return -50
	}
}

func tenurePoints(months int) int {
	switch {
	case months >= 60:
		return 30
	case months >= 24:
		return 15
	case months >= 12:
		return 5
	case months >= 6:
		return -5
	default:
		return -20
	}
}

// DefaultProbability maps a score onto a logistic curve between roughly 3%
// and 60%, rounded to three decimals. It decreases as score increases.
func DefaultProbability(score int) float64 {
	x := float64(MaxScore-score) / 100
	pd := 1/(1+math.Exp(-(x-pdMidpoint)))*pdSpan + pdFloor
	return decimal.NewFromFloat(pd).Round(pdDecimals).InexactFloat64()
}

// RiskFromScore buckets a score. Bands are inclusive on their lower bound.
func RiskFromScore(score int) model.RiskLevel {
	switch {
	case score >= 760:
		return model.RiskVeryLow
	case score >= 700:
		return model.RiskLow
	case score >= 650:
		return model.RiskMedium
	case score >= 600:
		return model.RiskElevated
	default:
		return model.RiskHigh
	}
}

// Recommendation returns the lending recommendation for a risk level.
func Recommendation(risk model.RiskLevel, hasCollateral bool) string {
	switch risk {
	case model.RiskVeryLow:
		return "Approve standard terms"
	case model.RiskLow:
		return "Approve; consider better rate"
	case model.RiskMedium:
		if hasCollateral {
			return "Approve with collateral"
		}
		return "Approve with additional guarantee"
	case model.RiskElevated:
		return "Conditional approval; reduce amount and require collateral"
	default:
		return "Reject or require strong collateral"
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
