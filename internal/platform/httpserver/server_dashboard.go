package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	dashboarderrors "tally/contexts/results-collation/dashboard-service/domain/errors"
	dashboardhttp "tally/contexts/results-collation/dashboard-service/transport/http"
)

func writeDashboardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, dashboardhttp.ErrorResponse{Code: code, Message: message})
}

func writeDashboardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboarderrors.ErrElectionRequired):
		writeDashboardError(w, http.StatusBadRequest, "election_required", err.Error())
	default:
		writeDashboardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	resp, err := s.dashboard.Handler.SummaryHandler(r.Context(), electionID)
	if err != nil {
		writeDashboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardRegions(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	resp, err := s.dashboard.Handler.RegionalBreakdownHandler(r.Context(), electionID)
	if err != nil {
		writeDashboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardLeading(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	resp, err := s.dashboard.Handler.LeadingCandidatesHandler(r.Context(), electionID)
	if err != nil {
		writeDashboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	electionID := strings.TrimSpace(query.Get("election_id"))

	var before time.Time
	if beforeRaw := strings.TrimSpace(query.Get("before")); beforeRaw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, beforeRaw)
		if err != nil {
			writeDashboardError(w, http.StatusBadRequest, "invalid_before", "before must be an RFC 3339 timestamp")
			return
		}
		before = parsed
	}

	limit := 0
	if limitRaw := strings.TrimSpace(query.Get("limit")); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeDashboardError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.dashboard.Handler.LiveFeedHandler(r.Context(), electionID, before, limit)
	if err != nil {
		writeDashboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
