package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	incidenterrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	incidentports "tally/contexts/field-operations/incident-tracker/ports"
	incidenthttp "tally/contexts/field-operations/incident-tracker/transport/http"
)

func writeIncidentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, incidenthttp.ErrorResponse{Code: code, Message: message})
}

func writeIncidentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, incidenterrors.ErrIncidentNotFound):
		writeIncidentError(w, http.StatusNotFound, "incident_not_found", err.Error())
	case errors.Is(err, incidenterrors.ErrAlreadyResolved):
		writeIncidentError(w, http.StatusConflict, "already_resolved", err.Error())
	case errors.Is(err, incidenterrors.ErrResolutionNotesRequired):
		writeIncidentError(w, http.StatusBadRequest, "resolution_notes_required", err.Error())
	case errors.Is(err, incidenterrors.ErrInvalidSeverity):
		writeIncidentError(w, http.StatusBadRequest, "invalid_severity", err.Error())
	case errors.Is(err, incidenterrors.ErrInvalidIncidentType):
		writeIncidentError(w, http.StatusBadRequest, "invalid_incident_type", err.Error())
	case errors.Is(err, incidenterrors.ErrInvalidIncidentInput):
		writeIncidentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, incidenterrors.ErrPermissionDenied):
		writeIncidentError(w, http.StatusForbidden, "permission_denied", err.Error())
	default:
		writeIncidentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func resolveIncidentActor(r *http.Request) incidentports.Actor {
	caller := resolveCaller(r)
	return incidentports.Actor{
		OfficerID:    caller.OfficerID,
		Capabilities: caller.Capabilities,
	}
}

func (s *Server) handleReportIncident(w http.ResponseWriter, r *http.Request) {
	var req incidenthttp.ReportIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIncidentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.incidents.Handler.ReportIncidentHandler(r.Context(), resolveIncidentActor(r), req)
	if err != nil {
		writeIncidentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := incidentports.IncidentFilter{
		ElectionID: query.Get("election_id"),
		ScopeID:    query.Get("scope_id"),
		Status:     query.Get("status"),
		Severity:   query.Get("severity"),
		Type:       query.Get("type"),
	}

	resp, err := s.incidents.Handler.ListIncidentsHandler(r.Context(), filter)
	if err != nil {
		writeIncidentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIncidentCounts(w http.ResponseWriter, r *http.Request) {
	electionID := strings.TrimSpace(r.URL.Query().Get("election_id"))
	resp, err := s.incidents.Handler.CountsHandler(r.Context(), electionID)
	if err != nil {
		writeIncidentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	resp, err := s.incidents.Handler.GetIncidentHandler(r.Context(), r.PathValue("incident_id"))
	if err != nil {
		writeIncidentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveIncident(w http.ResponseWriter, r *http.Request) {
	var req incidenthttp.ResolveIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIncidentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.incidents.Handler.ResolveIncidentHandler(
		r.Context(),
		resolveIncidentActor(r),
		r.PathValue("incident_id"),
		req,
	)
	if err != nil {
		writeIncidentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
