package model

// RiskLevel is the ordinal risk classification derived from a score.
type RiskLevel string

// Risk levels, from best to worst.
const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
)

// Result is the outcome of scoring one applicant.
type Result struct {
	Score              int       `json:"score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	DefaultProbability float64   `json:"default_probability"`
	Recommendation     string    `json:"recommendation"`
}

// Impact describes how a single factor moves the risk assessment.
type Impact string

// Factor impacts.
const (
	ImpactStrongPositive   Impact = "strong_positive"
	ImpactPositive         Impact = "positive"
	ImpactSlightlyPositive Impact = "slightly_positive"
	ImpactNeutral          Impact = "neutral"
	ImpactSlightlyNegative Impact = "slightly_negative"
	ImpactNegative         Impact = "negative"
	ImpactStrongNegative   Impact = "strong_negative"
)

// Factor is one line of a risk explanation.
type Factor struct {
	Factor string `json:"factor"`
	Impact Impact `json:"impact"`
}
