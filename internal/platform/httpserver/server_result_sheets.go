package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	sheetentities "tally/contexts/results-collation/result-sheet-service/domain/entities"
	sheeterrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	sheetports "tally/contexts/results-collation/result-sheet-service/ports"
	sheethttp "tally/contexts/results-collation/result-sheet-service/transport/http"
)

func writeSheetError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sheethttp.ErrorResponse{Code: code, Message: message})
}

func writeSheetDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sheeterrors.ErrSheetNotFound):
		writeSheetError(w, http.StatusNotFound, "sheet_not_found", err.Error())
	case errors.Is(err, sheeterrors.ErrDuplicateScope):
		writeSheetError(w, http.StatusConflict, "duplicate_scope", err.Error())
	case errors.Is(err, sheeterrors.ErrConcurrentModification):
		writeSheetError(w, http.StatusConflict, "concurrent_modification", err.Error())
	case errors.Is(err, sheeterrors.ErrTerminalState):
		writeSheetError(w, http.StatusConflict, "sheet_certified", err.Error())
	case errors.Is(err, sheeterrors.ErrDerivedSheetImmutable):
		writeSheetError(w, http.StatusConflict, "derived_sheet_immutable", err.Error())
	case errors.Is(err, sheeterrors.ErrInvalidTransition):
		writeSheetError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, sheeterrors.ErrInvalidState):
		writeSheetError(w, http.StatusUnprocessableEntity, "sheet_not_editable", err.Error())
	case errors.Is(err, sheeterrors.ErrSubmitPreconditions):
		writeSheetError(w, http.StatusUnprocessableEntity, "submit_preconditions", err.Error())
	case errors.Is(err, sheeterrors.ErrTotalsInconsistent):
		writeSheetError(w, http.StatusUnprocessableEntity, "totals_inconsistent", err.Error())
	case errors.Is(err, sheeterrors.ErrRejectionReasonRequired):
		writeSheetError(w, http.StatusBadRequest, "rejection_reason_required", err.Error())
	case errors.Is(err, sheeterrors.ErrInvalidSheetInput):
		writeSheetError(w, http.StatusBadRequest, "invalid_sheet_input", err.Error())
	case errors.Is(err, sheeterrors.ErrPermissionDenied):
		writeSheetError(w, http.StatusForbidden, "permission_denied", err.Error())
	default:
		writeSheetError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func resolveSheetActor(r *http.Request) sheetports.Actor {
	caller := resolveCaller(r)
	return sheetports.Actor{
		OfficerID:    caller.OfficerID,
		Capabilities: caller.Capabilities,
	}
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var req sheethttp.CreateSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSheetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sheets.Handler.CreateSheetHandler(r.Context(), resolveSheetActor(r), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := sheetports.SheetFilter{
		ElectionID: query.Get("election_id"),
		ScopeID:    query.Get("scope_id"),
		ScopeLevel: query.Get("scope_level"),
		Status:     sheetentities.SheetStatus(query.Get("status")),
	}
	if derivedRaw := strings.TrimSpace(query.Get("derived")); derivedRaw != "" {
		derived := derivedRaw == "true" || derivedRaw == "1"
		filter.Derived = &derived
	}

	resp, err := s.sheets.Handler.ListSheetsHandler(r.Context(), filter)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sheets.Handler.GetSheetHandler(r.Context(), r.PathValue("sheet_id"))
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkEntries(w http.ResponseWriter, r *http.Request) {
	var req sheethttp.BulkEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSheetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sheets.Handler.BulkEntriesHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTotals(w http.ResponseWriter, r *http.Request) {
	var req sheethttp.TotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSheetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sheets.Handler.UpdateTotalsHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitSheet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sheets.Handler.SubmitHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"))
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifySheet(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.sheets.Handler.VerifyHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveSheet(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.sheets.Handler.ApproveHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCertifySheet(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.sheets.Handler.CertifyHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectSheet(w http.ResponseWriter, r *http.Request) {
	var req sheethttp.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSheetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sheets.Handler.RejectHandler(r.Context(), resolveSheetActor(r), r.PathValue("sheet_id"), req)
	if err != nil {
		writeSheetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeReviewRequest tolerates an empty body: review notes are optional.
func decodeReviewRequest(w http.ResponseWriter, r *http.Request) (sheethttp.ReviewRequest, bool) {
	var req sheethttp.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeSheetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return sheethttp.ReviewRequest{}, false
	}
	return req, true
}
