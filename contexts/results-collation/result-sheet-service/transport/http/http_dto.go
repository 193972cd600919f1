package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSheetRequest struct {
	ElectionID string `json:"election_id"`
	ScopeID    string `json:"scope_id"`
	ScopeLevel string `json:"scope_level"`
}

type EntryRequest struct {
	PositionID   string `json:"position_id"`
	CandidateID  string `json:"candidate_id"`
	Votes        int64  `json:"votes"`
	VotesInWords string `json:"votes_in_words,omitempty"`
}

type BulkEntriesRequest struct {
	Entries []EntryRequest `json:"entries"`
}

type TotalsRequest struct {
	RegisteredVoters int64 `json:"total_registered_voters"`
	VotesCast        int64 `json:"total_votes_cast"`
	ValidVotes       int64 `json:"total_valid_votes"`
	RejectedVotes    int64 `json:"total_rejected_votes"`
}

type ReviewRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type EntryResponse struct {
	PositionID    string `json:"position_id"`
	CandidateID   string `json:"candidate_id"`
	Votes         int64  `json:"votes"`
	VotesInWords  string `json:"votes_in_words,omitempty"`
	WordsMismatch bool   `json:"words_mismatch,omitempty"`
}

type RejectionResponse struct {
	Reason     string    `json:"reason"`
	RejectedBy string    `json:"rejected_by"`
	FromStatus string    `json:"from_status"`
	RejectedAt time.Time `json:"rejected_at"`
}

type SheetResponse struct {
	SheetID          string              `json:"sheet_id"`
	ElectionID       string              `json:"election_id"`
	ScopeID          string              `json:"scope_id"`
	ScopeLevel       string              `json:"scope_level"`
	Derived          bool                `json:"derived"`
	Status           string              `json:"status"`
	Entries          []EntryResponse     `json:"entries"`
	RegisteredVoters int64               `json:"total_registered_voters"`
	VotesCast        int64               `json:"total_votes_cast"`
	ValidVotes       int64               `json:"total_valid_votes"`
	RejectedVotes    int64               `json:"total_rejected_votes"`
	TotalsSet        bool                `json:"totals_set"`
	TotalsFlagged    bool                `json:"totals_flagged"`
	RejectionReason  string              `json:"rejection_reason,omitempty"`
	RejectionCount   int                 `json:"rejection_count"`
	Rejections       []RejectionResponse `json:"rejections,omitempty"`
	Version          int64               `json:"version"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Warning          string              `json:"warning,omitempty"`
}

type SheetListResponse struct {
	Items []SheetResponse `json:"items"`
}
