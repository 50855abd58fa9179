package api

import (
	"errors"
	"net/http"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/logger"
)

// IdempotencyKeyHeader lets clients retry POST /credit-score without
// persisting the outcome twice.
const IdempotencyKeyHeader = "Idempotency-Key"

type factorsResponse struct {
	Factors []model.Factor `json:"factors"`
}

// handleCreditScore handles POST /credit-score.
func (s *Server) handleCreditScore(w http.ResponseWriter, r *http.Request) {
	a, err := decodeApplicant(w, r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	res, err := s.deps.ScoreApplicant(r.Context(), a, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		s.writeFailure(w, r, Wrap("score applicant", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRiskFactors handles POST /risk-factors.
func (s *Server) handleRiskFactors(w http.ResponseWriter, r *http.Request) {
	a, err := decodeApplicant(w, r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	factors, err := s.deps.ExplainApplicant(r.Context(), a)
	if err != nil {
		s.writeFailure(w, r, Wrap("explain applicant", err))
		return
	}
	writeJSON(w, http.StatusOK, factorsResponse{Factors: factors})
}

// writeFailure maps an error onto the response: bad requests carry their
// field issues, missing resources their message, anything unclassified
// becomes a 500.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var kerr *KindError
	switch {
	case errors.Is(err, ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input", Details: validationIssues(err)})
	case errors.Is(err, ErrNotFound) && errors.As(err, &kerr):
		writeError(w, http.StatusNotFound, kerr.Message)
	default:
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
