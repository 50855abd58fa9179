package scoring

import "github.com/okian/creditscore/internal/domain/model"

// Factor labels.
const (
	FactorAge            = "Age"
	FactorMonthlyIncome  = "Monthly income"
	FactorPaymentHistory = "Payment history"
	FactorActiveDebts    = "Active debts"
	FactorJobTenure      = "Job tenure"
	FactorCollateral     = "Collateral"
)

var paymentHistoryImpact = map[model.PaymentHistory]model.Impact{
	model.PaymentExcellent: model.ImpactStrongPositive,
	model.PaymentGood:      model.ImpactPositive,
	model.PaymentFair:      model.ImpactNegative,
	model.PaymentPoor:      model.ImpactStrongNegative,
}

// ExplainFactors describes how each declared attribute pushes the risk.
// It is independent from Score and uses its own thresholds. Collateral is
// listed only when declared true, so the result has five or six entries.
func ExplainFactors(a model.Applicant) []model.Factor {
	factors := make([]model.Factor, 0, 6)

	var age model.Impact
	switch {
	case a.Age < 25:
		age = model.ImpactNegative
	case a.Age <= 60:
		age = model.ImpactPositive
	default:
		age = model.ImpactSlightlyNegative
	}
	factors = append(factors, model.Factor{Factor: FactorAge, Impact: age})

	var income model.Impact
	switch {
	case a.MonthlyIncome >= 1500:
		income = model.ImpactPositive
	case a.MonthlyIncome >= 700:
		income = model.ImpactNeutral
	default:
		income = model.ImpactNegative
	}
	factors = append(factors, model.Factor{Factor: FactorMonthlyIncome, Impact: income})

	factors = append(factors, model.Factor{
		Factor: FactorPaymentHistory,
		Impact: paymentHistoryImpact[a.PaymentHistory],
	})

	var debts model.Impact
	switch {
	case a.ActiveDebts == 0:
		debts = model.ImpactPositive
	case a.ActiveDebts <= 2:
		debts = model.ImpactSlightlyNegative
	case a.ActiveDebts <= 5:
		debts = model.ImpactNegative
	default:
		debts = model.ImpactStrongNegative
	}
	factors = append(factors, model.Factor{Factor: FactorActiveDebts, Impact: debts})

	var tenure model.Impact
	switch {
	case a.CurrentJobTenureMonths >= 24:
		tenure = model.ImpactPositive
	case a.CurrentJobTenureMonths >= 12:
		tenure = model.ImpactSlightlyPositive
	case a.CurrentJobTenureMonths >= 6:
		tenure = model.ImpactNeutral
	default:
		tenure = model.ImpactNegative
	}
	factors = append(factors, model.Factor{Factor: FactorJobTenure, Impact: tenure})

	if a.Collateralized() {
		factors = append(factors, model.Factor{Factor: FactorCollateral, Impact: model.ImpactPositive})
	}
	return factors
}
