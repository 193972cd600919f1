package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SummaryResponse struct {
	ElectionID        string           `json:"election_id"`
	LeafScopes        int64            `json:"leaf_scopes"`
	ReportedScopes    int64            `json:"reported_scopes"`
	AggregableScopes  int64            `json:"aggregable_scopes"`
	CertifiedScopes   int64            `json:"certified_scopes"`
	CompletionPercent float64          `json:"completion_percent"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	RegisteredVoters  int64            `json:"total_registered_voters"`
	VotesCast         int64            `json:"total_votes_cast"`
	ValidVotes        int64            `json:"total_valid_votes"`
	RejectedVotes     int64            `json:"total_rejected_votes"`
	HasNationalTally  bool             `json:"has_national_tally"`
	OpenIncidents     int64            `json:"open_incidents"`
}

type RegionRowResponse struct {
	RegionID         string `json:"region_id"`
	Name             string `json:"name"`
	ExpectedLeaves   int64  `json:"expected_leaves"`
	ReportedLeaves   int64  `json:"reported_leaves"`
	AggregableLeaves int64  `json:"aggregable_leaves"`
}

type RegionalBreakdownResponse struct {
	Items []RegionRowResponse `json:"items"`
}

type CandidateTallyResponse struct {
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
	Votes       int64  `json:"votes"`
}

type LeadingCandidatesResponse struct {
	Items []CandidateTallyResponse `json:"items"`
}

type FeedEntryResponse struct {
	EventID     string         `json:"event_id"`
	ElectionID  string         `json:"election_id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	ScopeID     string         `json:"scope_id"`
	ScopeLevel  string         `json:"scope_level"`
	SheetID     string         `json:"sheet_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	PerformedAt time.Time      `json:"performed_at"`
}

// LiveFeedResponse pages newest first; NextBefore carries the cursor for
// the following page and is empty on the last page.
type LiveFeedResponse struct {
	Items      []FeedEntryResponse `json:"items"`
	NextBefore string              `json:"next_before,omitempty"`
}
