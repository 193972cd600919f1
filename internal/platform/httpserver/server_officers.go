package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	officererrors "tally/contexts/field-operations/officer-registry/domain/errors"
	officerports "tally/contexts/field-operations/officer-registry/ports"
	officerhttp "tally/contexts/field-operations/officer-registry/transport/http"
)

func writeOfficerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, officerhttp.ErrorResponse{Code: code, Message: message})
}

func writeOfficerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, officererrors.ErrOfficerNotFound):
		writeOfficerError(w, http.StatusNotFound, "officer_not_found", err.Error())
	case errors.Is(err, officererrors.ErrAssignmentNotFound):
		writeOfficerError(w, http.StatusNotFound, "assignment_not_found", err.Error())
	case errors.Is(err, officererrors.ErrDuplicateOfficer):
		writeOfficerError(w, http.StatusConflict, "duplicate_officer", err.Error())
	case errors.Is(err, officererrors.ErrScopeAlreadyAssigned):
		writeOfficerError(w, http.StatusConflict, "scope_already_assigned", err.Error())
	case errors.Is(err, officererrors.ErrOfficerAlreadyAssigned):
		writeOfficerError(w, http.StatusConflict, "officer_already_assigned", err.Error())
	case errors.Is(err, officererrors.ErrAssignmentEnded):
		writeOfficerError(w, http.StatusConflict, "assignment_ended", err.Error())
	case errors.Is(err, officererrors.ErrInvalidRole):
		writeOfficerError(w, http.StatusBadRequest, "invalid_role", err.Error())
	case errors.Is(err, officererrors.ErrInvalidOfficerInput),
		errors.Is(err, officererrors.ErrInvalidAssignmentInput):
		writeOfficerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, officererrors.ErrPermissionDenied):
		writeOfficerError(w, http.StatusForbidden, "permission_denied", err.Error())
	default:
		writeOfficerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func resolveOfficerActor(r *http.Request) officerports.Actor {
	caller := resolveCaller(r)
	return officerports.Actor{
		OfficerID:    caller.OfficerID,
		Capabilities: caller.Capabilities,
	}
}

func (s *Server) handleRegisterOfficer(w http.ResponseWriter, r *http.Request) {
	var req officerhttp.RegisterOfficerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfficerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.officers.Handler.RegisterOfficerHandler(r.Context(), resolveOfficerActor(r), req)
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOfficers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.officers.Handler.ListOfficersHandler(r.Context())
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOfficer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.officers.Handler.GetOfficerHandler(r.Context(), r.PathValue("officer_id"))
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignOfficer(w http.ResponseWriter, r *http.Request) {
	var req officerhttp.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfficerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.officers.Handler.AssignHandler(r.Context(), resolveOfficerActor(r), req)
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := officerports.AssignmentFilter{
		ElectionID: query.Get("election_id"),
		OfficerID:  query.Get("officer_id"),
		ScopeID:    query.Get("scope_id"),
		Role:       query.Get("role"),
	}
	if activeRaw := strings.TrimSpace(query.Get("active_only")); activeRaw != "" {
		filter.ActiveOnly = activeRaw == "true" || activeRaw == "1"
	}

	resp, err := s.officers.Handler.ListAssignmentsHandler(r.Context(), filter)
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.officers.Handler.EndAssignmentHandler(
		r.Context(),
		resolveOfficerActor(r),
		r.PathValue("assignment_id"),
	)
	if err != nil {
		writeOfficerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
