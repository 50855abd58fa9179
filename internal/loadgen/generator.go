package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/creditscore/pkg/logger"
)

const randomFloatDivisor = 1000000

// Applicant profile cases.
const (
	caseStable = iota
	caseYoung
	caseIndebted
	caseAffluent
	caseWideRange
	profileCount
)

var (
	countries       = []string{"us", "mx", "co", "ar", "br", "cl", "pe", ""}
	paymentHistory  = []string{"excellent", "good", "fair", "poor", ""}
	legacyHistory   = map[string]string{"excellent": "excelente", "good": "bueno", "fair": "regular", "poor": "malo"}
	legacyFieldKeys = map[string]string{
		"age":                       "edad",
		"monthly_income":            "ingresos_mensuales",
		"payment_history":           "historial_pagos",
		"active_debts":              "deudas_activas",
		"current_job_tenure_months": "tiempo_empleo_actual_meses",
		"country":                   "pais",
		"has_collateral":            "tiene_garantia",
	}
)

// Request is a generated submission with its idempotency key.
type Request struct {
	Key  string
	Body map[string]any
}

func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func randomFloat() float64 {
	return float64(randomInt(randomFloatDivisor)) / randomFloatDivisor
}

func between(lo, hi int) int {
	return lo + randomInt(hi-lo+1)
}

func pick[T any](items []T) T {
	return items[randomInt(len(items))]
}

// generateApplicants builds n requests, a LegacyRatio share of them keyed in Spanish.
func generateApplicants(ctx context.Context, config *Config, stats *Stats) ([]Request, error) {
	logger.Get().Info(ctx, "generating applicants", logger.Int("count", config.NumApplicants))

	out := make([]Request, 0, config.NumApplicants)
	for i := 0; i < config.NumApplicants; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		body := toBody(generateApplicant())
		if randomFloat() < config.LegacyRatio {
			body = toLegacy(body)
		}
		out = append(out, Request{Key: uuid.NewString(), Body: body})
	}

	stats.Generated = len(out)
	return out, nil
}

func generateApplicant() Applicant {
	a := Applicant{
		Country:        pick(countries),
		PaymentHistory: pick(paymentHistory),
	}
	switch randomInt(profileCount) {
	case caseStable:
		a.Age = between(30, 55)
		a.MonthlyIncome = float64(between(3000, 7000))
		a.ActiveDebts = between(0, 2)
		a.CurrentJobTenureMonths = between(24, 120)
	case caseYoung:
		a.Age = between(18, 24)
		a.MonthlyIncome = float64(between(500, 2500))
		a.ActiveDebts = between(0, 3)
		a.CurrentJobTenureMonths = between(0, 18)
	case caseIndebted:
		a.Age = between(25, 65)
		a.MonthlyIncome = float64(between(1000, 4000))
		a.ActiveDebts = between(3, 10)
		a.CurrentJobTenureMonths = between(6, 60)
	case caseAffluent:
		a.Age = between(35, 60)
		a.MonthlyIncome = float64(between(8000, 20000))
		a.ActiveDebts = between(0, 1)
		a.CurrentJobTenureMonths = between(60, 240)
	case caseWideRange:
		a.Age = between(18, 90)
		a.MonthlyIncome = float64(randomInt(15000)) + randomFloat()
		a.ActiveDebts = between(0, 12)
		a.CurrentJobTenureMonths = between(0, 300)
	}
	if randomInt(3) > 0 {
		collateral := randomInt(2) == 0
		a.HasCollateral = &collateral
	}
	return a
}

func toBody(a Applicant) map[string]any {
	body := map[string]any{
		"age":                       a.Age,
		"monthly_income":            a.MonthlyIncome,
		"active_debts":              a.ActiveDebts,
		"current_job_tenure_months": a.CurrentJobTenureMonths,
	}
	if a.PaymentHistory != "" {
		body["payment_history"] = a.PaymentHistory
	}
	if a.Country != "" {
		body["country"] = a.Country
	}
	if a.HasCollateral != nil {
		body["has_collateral"] = *a.HasCollateral
	}
	return body
}

func toLegacy(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		if k == "payment_history" {
			v = legacyHistory[v.(string)]
		}
		out[legacyFieldKeys[k]] = v
	}
	return out
}
