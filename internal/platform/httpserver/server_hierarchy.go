package httpserver

import (
	"errors"
	"net/http"
	"strings"

	hierarchyerrors "tally/contexts/results-collation/hierarchy-index/domain/errors"
	hierarchyhttp "tally/contexts/results-collation/hierarchy-index/transport/http"
)

func writeHierarchyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, hierarchyhttp.ErrorResponse{Code: code, Message: message})
}

func writeHierarchyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hierarchyerrors.ErrNodeNotFound):
		writeHierarchyError(w, http.StatusNotFound, "node_not_found", err.Error())
	case errors.Is(err, hierarchyerrors.ErrInvalidLevel):
		writeHierarchyError(w, http.StatusBadRequest, "invalid_level", err.Error())
	case errors.Is(err, hierarchyerrors.ErrInvalidHierarchy):
		writeHierarchyError(w, http.StatusUnprocessableEntity, "invalid_hierarchy", err.Error())
	default:
		writeHierarchyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	nodeID := strings.TrimSpace(r.PathValue("node_id"))
	if nodeID == "" {
		writeHierarchyError(w, http.StatusBadRequest, "invalid_request", "node_id is required")
		return
	}
	resp, err := s.hierarchy.Handler.GetNodeHandler(r.Context(), nodeID)
	if err != nil {
		writeHierarchyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	nodeID := strings.TrimSpace(r.PathValue("node_id"))
	if nodeID == "" {
		writeHierarchyError(w, http.StatusBadRequest, "invalid_request", "node_id is required")
		return
	}
	resp, err := s.hierarchy.Handler.ChildrenHandler(r.Context(), nodeID)
	if err != nil {
		writeHierarchyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByLevel(w http.ResponseWriter, r *http.Request) {
	level := strings.TrimSpace(r.PathValue("level"))
	resp, err := s.hierarchy.Handler.ListByLevelHandler(r.Context(), level)
	if err != nil {
		writeHierarchyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
