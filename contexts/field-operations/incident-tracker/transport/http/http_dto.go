package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ReportIncidentRequest struct {
	ElectionID  string `json:"election_id"`
	ScopeID     string `json:"scope_id"`
	ScopeLevel  string `json:"scope_level"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type ResolveIncidentRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
}

type IncidentResponse struct {
	IncidentID      string     `json:"incident_id"`
	ElectionID      string     `json:"election_id"`
	ScopeID         string     `json:"scope_id"`
	ScopeLevel      string     `json:"scope_level"`
	Type            string     `json:"type"`
	Severity        string     `json:"severity"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	ReportedBy      string     `json:"reported_by"`
	ReportedAt      time.Time  `json:"reported_at"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
}

type IncidentListResponse struct {
	Items []IncidentResponse `json:"items"`
}

type IncidentCountsResponse struct {
	Open     int64 `json:"open"`
	Resolved int64 `json:"resolved"`
}
