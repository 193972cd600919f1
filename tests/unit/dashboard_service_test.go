package unit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	dashboardservice "tally/contexts/results-collation/dashboard-service"
	"tally/contexts/results-collation/dashboard-service/adapters/memory"
	domainerrors "tally/contexts/results-collation/dashboard-service/domain/errors"
	"tally/contexts/results-collation/dashboard-service/ports"
)

func seedDashboard(store *memory.Store) {
	store.SetNode("election-1", memory.Node{NodeID: "national-1", Name: "Federal", Level: "national"})
	store.SetNode("election-1", memory.Node{NodeID: "region-1", Name: "South West", Level: "region", ParentID: "national-1"})
	store.SetNode("election-1", memory.Node{NodeID: "region-2", Name: "North Central", Level: "region", ParentID: "national-1"})
	store.SetNode("election-1", memory.Node{NodeID: "constituency-1", Level: "constituency", ParentID: "region-1"})
	store.SetNode("election-1", memory.Node{NodeID: "area-1", Level: "area", ParentID: "constituency-1"})
	store.SetNode("election-1", memory.Node{NodeID: "constituency-2", Level: "constituency", ParentID: "region-2"})
	store.SetNode("election-1", memory.Node{NodeID: "area-2", Level: "area", ParentID: "constituency-2"})
	for i, area := range []string{"area-1", "area-1", "area-2", "area-2"} {
		store.SetNode("election-1", memory.Node{
			NodeID:   fmt.Sprintf("station-%d", i+1),
			Level:    "station",
			ParentID: area,
		})
	}

	store.SetSheet("election-1", memory.SheetSeed{ScopeID: "station-1", ScopeLevel: "station", Status: "certified", RegisteredVoters: 500, VotesCast: 210, ValidVotes: 200, RejectedVotes: 10})
	store.SetSheet("election-1", memory.SheetSeed{ScopeID: "station-2", ScopeLevel: "station", Status: "approved", RegisteredVoters: 450, VotesCast: 145, ValidVotes: 140, RejectedVotes: 5})
	store.SetSheet("election-1", memory.SheetSeed{ScopeID: "station-3", ScopeLevel: "station", Status: "submitted"})
	// station-4 has not reported at all.

	store.SetSheet("election-1", memory.SheetSeed{
		ScopeID:          "national-1",
		ScopeLevel:       "national",
		Status:           "draft",
		Derived:          true,
		RegisteredVoters: 950,
		VotesCast:        355,
		ValidVotes:       340,
		RejectedVotes:    15,
		Entries: []ports.CandidateTally{
			{PositionID: "president", CandidateID: "candidate-b", Votes: 130},
			{PositionID: "president", CandidateID: "candidate-a", Votes: 210},
		},
	})
	store.SetOpenIncidents("election-1", 2)
}

func TestDashboardSummary(t *testing.T) {
	module := dashboardservice.NewInMemoryModule(nil)
	seedDashboard(module.Store)

	summary, err := module.Handler.SummaryHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.LeafScopes != 4 || summary.ReportedScopes != 3 || summary.AggregableScopes != 2 || summary.CertifiedScopes != 1 {
		t.Fatalf("unexpected scope counts: %+v", summary)
	}
	if summary.CompletionPercent != 50 {
		t.Fatalf("expected 50%% completion, got %v", summary.CompletionPercent)
	}
	if !summary.HasNationalTally || summary.VotesCast != 355 || summary.ValidVotes != 340 {
		t.Fatalf("unexpected national tally: %+v", summary)
	}
	if summary.OpenIncidents != 2 {
		t.Fatalf("expected 2 open incidents, got %d", summary.OpenIncidents)
	}
	if summary.StatusCounts["certified"] != 1 || summary.StatusCounts["approved"] != 1 || summary.StatusCounts["submitted"] != 1 {
		t.Fatalf("unexpected status counts: %v", summary.StatusCounts)
	}

	if _, err := module.Handler.SummaryHandler(context.Background(), "  "); !errors.Is(err, domainerrors.ErrElectionRequired) {
		t.Fatalf("expected election required, got %v", err)
	}
}

func TestDashboardRegionalBreakdown(t *testing.T) {
	module := dashboardservice.NewInMemoryModule(nil)
	seedDashboard(module.Store)

	breakdown, err := module.Handler.RegionalBreakdownHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("regional breakdown failed: %v", err)
	}
	if len(breakdown.Items) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(breakdown.Items))
	}
	southWest := breakdown.Items[0]
	if southWest.RegionID != "region-1" || southWest.ExpectedLeaves != 2 || southWest.ReportedLeaves != 2 || southWest.AggregableLeaves != 2 {
		t.Fatalf("unexpected region-1 row: %+v", southWest)
	}
	northCentral := breakdown.Items[1]
	if northCentral.RegionID != "region-2" || northCentral.ExpectedLeaves != 2 || northCentral.ReportedLeaves != 1 || northCentral.AggregableLeaves != 0 {
		t.Fatalf("unexpected region-2 row: %+v", northCentral)
	}
}

func TestDashboardLeadingCandidates(t *testing.T) {
	module := dashboardservice.NewInMemoryModule(nil)
	seedDashboard(module.Store)

	leading, err := module.Handler.LeadingCandidatesHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("leading candidates failed: %v", err)
	}
	if len(leading.Items) != 2 {
		t.Fatalf("expected 2 tallies, got %d", len(leading.Items))
	}
	if leading.Items[0].CandidateID != "candidate-a" || leading.Items[0].Votes != 210 {
		t.Fatalf("expected candidate-a to lead, got %+v", leading.Items[0])
	}

	// No national rollup yet: an empty board, not an error.
	empty := dashboardservice.NewInMemoryModule(nil)
	board, err := empty.Handler.LeadingCandidatesHandler(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("leading candidates on empty election failed: %v", err)
	}
	if len(board.Items) != 0 {
		t.Fatalf("expected empty board, got %+v", board.Items)
	}
}

func TestDashboardLiveFeedPagination(t *testing.T) {
	module := dashboardservice.NewInMemoryModule(nil)
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		module.Store.AppendFeed("election-1", ports.FeedEntry{
			EventID:     fmt.Sprintf("event-%d", i+1),
			ElectionID:  "election-1",
			Action:      "sheet_submitted",
			ScopeID:     fmt.Sprintf("station-%d", i+1),
			PerformedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	ctx := context.Background()

	first, err := module.Handler.LiveFeedHandler(ctx, "election-1", time.Time{}, 2)
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first.Items))
	}
	if first.Items[0].EventID != "event-5" || first.Items[1].EventID != "event-4" {
		t.Fatalf("expected newest first, got %+v", first.Items)
	}
	if first.NextBefore == "" {
		t.Fatalf("expected a cursor for the next page")
	}

	cursor, err := time.Parse(time.RFC3339Nano, first.NextBefore)
	if err != nil {
		t.Fatalf("parse cursor failed: %v", err)
	}
	second, err := module.Handler.LiveFeedHandler(ctx, "election-1", cursor, 2)
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second.Items) != 2 || second.Items[0].EventID != "event-3" || second.Items[1].EventID != "event-2" {
		t.Fatalf("unexpected second page: %+v", second.Items)
	}

	// Zero and oversized limits clamp to the default and maximum.
	all, err := module.Handler.LiveFeedHandler(ctx, "election-1", time.Time{}, 0)
	if err != nil {
		t.Fatalf("default limit page failed: %v", err)
	}
	if len(all.Items) != 5 {
		t.Fatalf("expected full feed under default limit, got %d", len(all.Items))
	}
	capped, err := module.Handler.LiveFeedHandler(ctx, "election-1", time.Time{}, 1000)
	if err != nil {
		t.Fatalf("capped limit page failed: %v", err)
	}
	if len(capped.Items) != 5 {
		t.Fatalf("expected capped page to return the feed, got %d", len(capped.Items))
	}
}
