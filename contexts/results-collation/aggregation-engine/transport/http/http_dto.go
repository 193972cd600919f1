package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AggregateEntryResponse struct {
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
	Votes       int64  `json:"votes"`
}

type ConsistencyWarningResponse struct {
	ScopeID string `json:"scope_id,omitempty"`
	Reason  string `json:"reason"`
}

type AggregateResponse struct {
	ElectionID       string                       `json:"election_id"`
	NodeID           string                       `json:"node_id"`
	NodeLevel        string                       `json:"node_level"`
	Entries          []AggregateEntryResponse     `json:"entries"`
	RegisteredVoters int64                        `json:"total_registered_voters"`
	VotesCast        int64                        `json:"total_votes_cast"`
	ValidVotes       int64                        `json:"total_valid_votes"`
	RejectedVotes    int64                        `json:"total_rejected_votes"`
	Partial          bool                         `json:"partial"`
	MissingScopes    []string                     `json:"missing_scopes"`
	Warnings         []ConsistencyWarningResponse `json:"warnings"`
	ChildCount       int                          `json:"child_count"`
	Contributing     int                          `json:"contributing_count"`
	ComputedAt       time.Time                    `json:"computed_at"`
}
