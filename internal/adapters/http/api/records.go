package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/creditscore/internal/domain/model"
	"github.com/okian/creditscore/pkg/logger"
)

type recordsPage struct {
	Country string         `json:"country,omitempty"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Records []model.Record `json:"records"`
}

// handleRecords handles GET /records.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	all, err := s.deps.Records(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "unable to read records", logger.Error(err))
	}
	writeJSON(w, http.StatusOK, s.page(r, all))
}

// handleRecordsByCountry handles GET /records/{country}.
func (s *Server) handleRecordsByCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "country")
	all, err := s.deps.RecordsByCountry(r.Context(), code)
	if err != nil {
		s.logger.Error(r.Context(), "unable to read records",
			logger.String("country", code),
			logger.Error(err),
		)
	}
	if len(all) == 0 {
		s.writeFailure(w, r, NewKind("records for country", ErrNotFound, "No records for country"))
		return
	}
	p := s.page(r, all)
	p.Country = code
	writeJSON(w, http.StatusOK, p)
}

// page slices all according to the limit and offset query parameters.
// Missing or invalid values fall back to defaults; limit is capped.
func (s *Server) page(r *http.Request, all []model.Record) recordsPage {
	q := r.URL.Query()

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	start := min(offset, len(all))
	end := min(start+limit, len(all))
	recs := all[start:end]
	if recs == nil {
		recs = []model.Record{}
	}
	return recordsPage{Total: len(all), Limit: limit, Offset: offset, Records: recs}
}
