package ports

import (
	"context"
	"time"
)

// Summary is the headline card: leaf reporting progress plus the national
// rollup when one exists.
type Summary struct {
	ElectionID       string
	LeafScopes       int64
	ReportedScopes   int64
	AggregableScopes int64
	CertifiedScopes  int64
	StatusCounts     map[string]int64
	RegisteredVoters int64
	VotesCast        int64
	ValidVotes       int64
	RejectedVotes    int64
	HasNationalTally bool
	OpenIncidents    int64
}

// RegionRow is one region's slice of the completion breakdown.
type RegionRow struct {
	RegionID         string
	Name             string
	ExpectedLeaves   int64
	ReportedLeaves   int64
	AggregableLeaves int64
}

// CandidateTally is a candidate's national position standing.
type CandidateTally struct {
	PositionID  string
	CandidateID string
	Votes       int64
}

// FeedEntry is one live feed record as projected to readers.
type FeedEntry struct {
	EventID     string
	ElectionID  string
	ActorID     string
	Action      string
	ScopeID     string
	ScopeLevel  string
	SheetID     string
	Metadata    map[string]any
	PerformedAt time.Time
}

// DashboardRepository reads committed collation state. Implementations
// project over the shared tables; none of these calls ever write.
type DashboardRepository interface {
	Summary(ctx context.Context, electionID string) (Summary, error)
	RegionalBreakdown(ctx context.Context, electionID string) ([]RegionRow, error)
	LeadingCandidates(ctx context.Context, electionID string) ([]CandidateTally, error)
	// ListFeed returns feed entries strictly older than before, newest
	// first. A zero before means "from the latest".
	ListFeed(ctx context.Context, electionID string, before time.Time, limit int) ([]FeedEntry, error)
}
