package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/logger"
)

type benchmarksResponse struct {
	Countries []model.Benchmark `json:"countries"`
}

// handleBenchmarks handles GET /benchmarks. Read failures degrade to an empty
// list.
func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	all, err := s.deps.Benchmarks(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "unable to compute benchmarks", logger.Error(err))
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := benchmarksResponse{Countries: make([]model.Benchmark, 0, len(keys))}
	for _, k := range keys {
		out.Countries = append(out.Countries, all[k])
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBenchmarkForCountry handles GET /benchmarks/{country}.
func (s *Server) handleBenchmarkForCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "country")
	b, ok, err := s.deps.BenchmarkForCountry(r.Context(), code)
	if err != nil {
		s.logger.Error(r.Context(), "unable to compute benchmark",
			logger.String("country", code),
			logger.Error(err),
		)
	}
	if !ok {
		s.writeFailure(w, r, NewKind("benchmark for country", ErrNotFound, "No data for country"))
		return
	}
	writeJSON(w, http.StatusOK, b)
}
