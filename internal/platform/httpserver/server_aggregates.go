package httpserver

import (
	"errors"
	"net/http"
	"strings"

	aggregateerrors "tally/contexts/results-collation/aggregation-engine/domain/errors"
	aggregatehttp "tally/contexts/results-collation/aggregation-engine/transport/http"
)

func writeAggregateError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, aggregatehttp.ErrorResponse{Code: code, Message: message})
}

func writeAggregateDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, aggregateerrors.ErrElectionRequired):
		writeAggregateError(w, http.StatusBadRequest, "election_required", err.Error())
	case errors.Is(err, aggregateerrors.ErrNodeNotFound):
		writeAggregateError(w, http.StatusNotFound, "node_not_found", err.Error())
	case errors.Is(err, aggregateerrors.ErrNotAggregable):
		writeAggregateError(w, http.StatusUnprocessableEntity, "not_aggregable", err.Error())
	case errors.Is(err, aggregateerrors.ErrConcurrentModification):
		writeAggregateError(w, http.StatusConflict, "concurrent_modification", err.Error())
	default:
		writeAggregateError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleGetAggregate(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	nodeID := r.PathValue("node_id")

	resp, err := s.aggregation.Handler.AggregateHandler(r.Context(), electionID, nodeID)
	if err != nil {
		writeAggregateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecomputeAggregate(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	nodeID := r.PathValue("node_id")

	resp, err := s.aggregation.Handler.RecomputeHandler(r.Context(), electionID, nodeID)
	if err != nil {
		writeAggregateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
