// internal/httpserver/routes_results.go
//
// HTTP routes for the results journal, mounted only when one is configured:
//   - GET /results         → newest finished games (?limit=N, default 20)
//   - GET /results/summary → played / won / lost counts

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brailledle/internal/journal"
)

const maxResultsLimit = 100

// mountResults registers all /results routes.
func (s *Server) mountResults(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleResults)
		r.Get("/summary", s.handleSummary)
	})
}

// resultsRes is returned by GET /results.
type resultsRes struct {
	Results []journal.Result `json:"results"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_limit"})
			return
		}
		limit = min(n, maxResultsLimit)
	}
	rows, err := s.opts.Journal.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("read results")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, resultsRes{Results: rows})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.opts.Journal.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("read summary")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
