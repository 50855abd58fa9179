package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/creditscore/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// legacyKeys maps the Spanish field names older clients send onto the
// canonical ones.
var legacyKeys = map[string]string{
	"edad":                       "age",
	"ingresos_mensuales":         "monthly_income",
	"historial_pagos":            "payment_history",
	"deudas_activas":             "active_debts",
	"tiempo_empleo_actual_meses": "current_job_tenure_months",
	"pais":                       "country",
	"tiene_garantia":             "has_collateral",
}

var legacyPaymentHistory = map[string]model.PaymentHistory{
	"excelente": model.PaymentExcellent,
	"bueno":     model.PaymentGood,
	"regular":   model.PaymentFair,
	"malo":      model.PaymentPoor,
}

// TranslateLegacy returns a copy of body with Spanish keys mapped onto their
// canonical names. A non-null legacy value overrides the canonical key, and
// legacy payment history values are translated when recognized. The legacy
// keys themselves are left in place.
func TranslateLegacy(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	for legacy, canonical := range legacyKeys {
		v, ok := body[legacy]
		if !ok || v == nil {
			continue
		}
		if legacy == "historial_pagos" {
			if s, ok := v.(string); ok {
				if ph, known := legacyPaymentHistory[s]; known {
					v = string(ph)
				}
			}
		}
		out[canonical] = v
	}
	return out
}

// Issue describes one rejected input field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in an applicant payload.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Path + ": " + is.Message
	}
	return "invalid applicant: " + strings.Join(parts, "; ")
}

// decodeApplicant reads, translates and validates a request body.
func decodeApplicant(w http.ResponseWriter, r *http.Request) (model.Applicant, error) {
	const op = "decode applicant"

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return model.Applicant{}, WrapKind(op, ErrBadRequest, &ValidationError{
			Issues: []Issue{{Path: "", Message: "Request body could not be read"}},
		})
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		return model.Applicant{}, WrapKind(op, ErrBadRequest, &ValidationError{
			Issues: []Issue{{Path: "", Message: "Expected a JSON object"}},
		})
	}

	a, verr := validateApplicant(TranslateLegacy(body))
	if verr != nil {
		return model.Applicant{}, WrapKind(op, ErrBadRequest, verr)
	}
	return a, nil
}

// applicantRequest is the canonical request shape. Pointers distinguish an
// absent field from a zero value.
type applicantRequest struct {
	Age                    *float64 `json:"age" validate:"required,integral,min=18,max=100"`
	MonthlyIncome          *float64 `json:"monthly_income" validate:"required,min=0"`
	PaymentHistory         *string  `json:"payment_history" validate:"omitnil,oneof=excellent good fair poor"`
	ActiveDebts            *float64 `json:"active_debts" validate:"required,integral,min=0,max=50"`
	CurrentJobTenureMonths *float64 `json:"current_job_tenure_months" validate:"required,integral,min=0,max=600"`
	Country                *string  `json:"country" validate:"omitnil,min=2,max=56"`
	HasCollateral          *bool    `json:"has_collateral"`
}

const paymentHistoryEnum = "'excellent' | 'good' | 'fair' | 'poor'"

var applicantValidator = newApplicantValidator() //nolint:gochecknoglobals // validators cache struct metadata

func newApplicantValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	if err := v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	}); err != nil {
		panic(err)
	}
	return v
}

// validateApplicant applies the applicant schema to a translated payload.
// Issues are reported in field order, at most one per field.
func validateApplicant(in map[string]any) (model.Applicant, *ValidationError) {
	var req applicantRequest
	rv := reflect.ValueOf(&req).Elem()
	rt := rv.Type()

	found := make(map[string]Issue)
	for i := 0; i < rt.NumField(); i++ {
		path, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		raw, ok := in[path]
		if !ok {
			continue
		}
		if err := assignField(rv.Field(i), raw); err != nil {
			found[path] = Issue{Path: path, Message: typeMessage(path, rt.Field(i).Type.Elem().Kind(), raw)}
		}
	}

	var verrs validator.ValidationErrors
	if err := applicantValidator.Struct(&req); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, typed := found[fe.Field()]; !typed {
				found[fe.Field()] = Issue{Path: fe.Field(), Message: ruleMessage(fe)}
			}
		}
	}

	if len(found) > 0 {
		issues := make([]Issue, 0, len(found))
		for i := 0; i < rt.NumField(); i++ {
			path, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
			if is, ok := found[path]; ok {
				issues = append(issues, is)
			}
		}
		return model.Applicant{}, &ValidationError{Issues: issues}
	}

	a := model.Applicant{
		Age:                    int(*req.Age),
		MonthlyIncome:          *req.MonthlyIncome,
		PaymentHistory:         model.PaymentFair,
		ActiveDebts:            int(*req.ActiveDebts),
		CurrentJobTenureMonths: int(*req.CurrentJobTenureMonths),
		HasCollateral:          req.HasCollateral,
	}
	if req.PaymentHistory != nil {
		a.PaymentHistory = model.PaymentHistory(*req.PaymentHistory)
	}
	if req.Country != nil {
		a.Country = *req.Country
	}
	return a, nil
}

// assignField decodes one raw payload value into a pointer field. Null is a
// type error rather than an absent field.
func assignField(field reflect.Value, raw any) error {
	if raw == nil {
		return errors.New("null value")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, field.Addr().Interface())
}

func typeMessage(path string, want reflect.Kind, raw any) string {
	if path == "payment_history" {
		return "Invalid enum value. Expected " + paymentHistoryEnum + ", received " + describe(raw)
	}
	if n, ok := raw.(json.Number); ok && want == reflect.Float64 {
		return "Expected number, received " + n.String()
	}
	expected := map[reflect.Kind]string{
		reflect.Float64: "number",
		reflect.String:  "string",
		reflect.Bool:    "boolean",
	}[want]
	return "Expected " + expected + ", received " + kindOf(raw)
}

func ruleMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Required"
	case "integral":
		return "Expected integer, received float"
	case "oneof":
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", paymentHistoryEnum, fe.Value())
	case "min":
		if isString {
			return "String must contain at least " + fe.Param() + " character(s)"
		}
		return "Number must be greater than or equal to " + fe.Param()
	case "max":
		if isString {
			return "String must contain at most " + fe.Param() + " character(s)"
		}
		return "Number must be less than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return "object"
	}
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return kindOf(v)
}

// validationIssues extracts field issues from a bad request error.
func validationIssues(err error) []Issue {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Issues
	}
	return []Issue{{Path: "", Message: err.Error()}}
}
