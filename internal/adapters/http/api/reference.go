package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleReferenceBenchmarks handles GET /reference-benchmarks.
func (s *Server) handleReferenceBenchmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.ReferenceBenchmarks(r.Context()))
}

// handleReferenceBenchmark handles GET /reference-benchmarks/{country}.
func (s *Server) handleReferenceBenchmark(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.deps.ReferenceBenchmark(r.Context(), chi.URLParam(r, "country"))
	if !ok {
		s.writeFailure(w, r, NewKind("reference benchmark", ErrNotFound, "No reference benchmark for country"))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
