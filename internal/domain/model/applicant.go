// Package model contains domain models passed between layers.
package model

// PaymentHistory is the declared repayment track record of an applicant.
type PaymentHistory string

// Payment history values.
const (
	PaymentExcellent PaymentHistory = "excellent"
	PaymentGood      PaymentHistory = "good"
	PaymentFair      PaymentHistory = "fair"
	PaymentPoor      PaymentHistory = "poor"
)

// Valid reports whether p is one of the known payment history values.
func (p PaymentHistory) Valid() bool {
	switch p {
	case PaymentExcellent, PaymentGood, PaymentFair, PaymentPoor:
		return true
	}
	return false
}

// Applicant holds the declared attributes of a loan candidate. It is assumed
// to be validated before it reaches the scoring engine.
type Applicant struct {
	Age                    int            `json:"age"`
	MonthlyIncome          float64        `json:"monthly_income"`
	PaymentHistory         PaymentHistory `json:"payment_history"`
	ActiveDebts            int            `json:"active_debts"`
	CurrentJobTenureMonths int            `json:"current_job_tenure_months"`
	Country                string         `json:"country,omitempty"`
	HasCollateral          *bool          `json:"has_collateral,omitempty"`
}

// Collateralized reports whether collateral was declared and is true.
func (a Applicant) Collateralized() bool {
	return a.HasCollateral != nil && *a.HasCollateral
}
