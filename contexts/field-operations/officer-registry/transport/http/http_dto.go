package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterOfficerRequest struct {
	OfficerID string `json:"officer_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type AssignRequest struct {
	ElectionID string `json:"election_id"`
	OfficerID  string `json:"officer_id"`
	ScopeID    string `json:"scope_id"`
	ScopeLevel string `json:"scope_level"`
	Role       string `json:"role"`
}

type OfficerResponse struct {
	OfficerID string    `json:"officer_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OfficerListResponse struct {
	Items []OfficerResponse `json:"items"`
}

type AssignmentResponse struct {
	AssignmentID string     `json:"assignment_id"`
	ElectionID   string     `json:"election_id"`
	OfficerID    string     `json:"officer_id"`
	ScopeID      string     `json:"scope_id"`
	ScopeLevel   string     `json:"scope_level"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	AssignedBy   string     `json:"assigned_by"`
	AssignedAt   time.Time  `json:"assigned_at"`
	EndedBy      string     `json:"ended_by,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type AssignmentListResponse struct {
	Items []AssignmentResponse `json:"items"`
}
