// Package api exposes the credit score service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/creditscore/internal/adapters/reference"
	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ScoreApplicant scores a validated applicant and persists the outcome.
	// An idempotency key that was already used skips persistence.
	ScoreApplicant(ctx context.Context, a model.Applicant, idempotencyKey string) (model.Result, error)
	ExplainApplicant(ctx context.Context, a model.Applicant) ([]model.Factor, error)

	Records(ctx context.Context) ([]model.Record, error)
	RecordsByCountry(ctx context.Context, code string) ([]model.Record, error)

	Benchmarks(ctx context.Context) (map[string]model.Benchmark, error)
	BenchmarkForCountry(ctx context.Context, code string) (model.Benchmark, bool, error)

	ReferenceBenchmarks(ctx context.Context) reference.Dataset
	ReferenceBenchmark(ctx context.Context, code string) (json.RawMessage, bool)
}

// Mount registers extra routes, such as docs or metrics, on the router.
type Mount func(r chi.Router)

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
	now    func() time.Time

	defaultLimit int
	maxLimit     int
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		now:          time.Now,
		defaultLimit: 50,
		maxLimit:     200,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Handler builds the router with every API route and the given mounts.
func (s *Server) Handler(mounts ...Mount) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.CleanPath)
	r.Use(RequestID)
	r.Use(Metrics)
	r.Use(s.RequestLogger)
	r.Use(s.Recoverer)
	r.Use(CORS)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	r.Post("/credit-score", s.handleCreditScore)
	r.Post("/risk-factors", s.handleRiskFactors)

	r.Route("/benchmarks", func(r chi.Router) {
		r.Get("/", s.handleBenchmarks)
		r.Get("/{country}", s.handleBenchmarkForCountry)
	})
	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleRecords)
		r.Get("/{country}", s.handleRecordsByCountry)
	})
	r.Route("/reference-benchmarks", func(r chi.Router) {
		r.Get("/", s.handleReferenceBenchmarks)
		r.Get("/{country}", s.handleReferenceBenchmark)
	})

	for _, m := range mounts {
		m(r)
	}
	return r
}

type errorResponse struct {
	Error   string  `json:"error"`
	Details []Issue `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
