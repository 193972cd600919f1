package unit

import (
	"context"
	"errors"
	"reflect"
	"testing"

	aggregationengine "tally/contexts/results-collation/aggregation-engine"
	"tally/contexts/results-collation/aggregation-engine/adapters/memory"
	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	domainerrors "tally/contexts/results-collation/aggregation-engine/domain/errors"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

func seedAreaWithStations(store *memory.Store) {
	store.SetNode("election-1", ports.GeoNode{NodeID: "area-1", Name: "Ikeja", Level: "area"})
	for _, station := range []string{"station-1", "station-2", "station-3"} {
		store.SetNode("election-1", ports.GeoNode{
			NodeID:           station,
			Level:            "station",
			ParentID:         "area-1",
			RegisteredVoters: 500,
		})
	}

	store.SetSheet("election-1", entities.ChildSheet{
		SheetID:    "sheet-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Status:     "approved",
		Entries: []entities.Entry{
			{PositionID: "president", CandidateID: "candidate-a", Votes: 120},
			{PositionID: "president", CandidateID: "candidate-b", Votes: 80},
		},
		Totals:    entities.Totals{RegisteredVoters: 500, VotesCast: 210, ValidVotes: 200, RejectedVotes: 10},
		TotalsSet: true,
		Version:   3,
	})
	store.SetSheet("election-1", entities.ChildSheet{
		SheetID:    "sheet-2",
		ScopeID:    "station-2",
		ScopeLevel: "station",
		Status:     "certified",
		Entries: []entities.Entry{
			{PositionID: "president", CandidateID: "candidate-b", Votes: 50},
			{PositionID: "president", CandidateID: "candidate-a", Votes: 90},
		},
		Totals:    entities.Totals{RegisteredVoters: 500, VotesCast: 145, ValidVotes: 140, RejectedVotes: 5},
		TotalsSet: true,
		Version:   5,
	})
	// station-3 reported but still under review: it must not contribute.
	store.SetSheet("election-1", entities.ChildSheet{
		SheetID:    "sheet-3",
		ScopeID:    "station-3",
		ScopeLevel: "station",
		Status:     "submitted",
		Entries:    []entities.Entry{{PositionID: "president", CandidateID: "candidate-a", Votes: 10}},
		Version:    1,
	})
}

func TestAggregateSumsApprovedChildrenOnly(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)

	aggregate, err := module.Service.Aggregate(context.Background(), "election-1", "area-1")
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	wantEntries := []entities.Entry{
		{PositionID: "president", CandidateID: "candidate-a", Votes: 210},
		{PositionID: "president", CandidateID: "candidate-b", Votes: 130},
	}
	if !reflect.DeepEqual(aggregate.Entries, wantEntries) {
		t.Fatalf("unexpected entries: %+v", aggregate.Entries)
	}
	if aggregate.Totals.VotesCast != 355 || aggregate.Totals.ValidVotes != 340 || aggregate.Totals.RejectedVotes != 15 {
		t.Fatalf("unexpected totals: %+v", aggregate.Totals)
	}
	if !aggregate.Partial {
		t.Fatalf("expected partial aggregate while station-3 is under review")
	}
	if len(aggregate.MissingScopes) != 1 || aggregate.MissingScopes[0] != "station-3" {
		t.Fatalf("unexpected missing scopes: %v", aggregate.MissingScopes)
	}
	if aggregate.ChildCount != 3 || aggregate.Contributing != 2 {
		t.Fatalf("expected 2 of 3 contributing, got %d of %d", aggregate.Contributing, aggregate.ChildCount)
	}
	if len(aggregate.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", aggregate.Warnings)
	}
	if aggregate.MaxChildVersion != 5 {
		t.Fatalf("expected max child version 5, got %d", aggregate.MaxChildVersion)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	first, err := module.Service.Aggregate(ctx, "election-1", "area-1")
	if err != nil {
		t.Fatalf("first aggregate failed: %v", err)
	}
	second, err := module.Service.Aggregate(ctx, "election-1", "area-1")
	if err != nil {
		t.Fatalf("second aggregate failed: %v", err)
	}
	first.ComputedAt = second.ComputedAt
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat aggregation over unchanged children must be identical")
	}
}

func TestAggregateInputValidation(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	if _, err := module.Service.Aggregate(ctx, "", "area-1"); !errors.Is(err, domainerrors.ErrElectionRequired) {
		t.Fatalf("expected election required, got %v", err)
	}
	if _, err := module.Service.Aggregate(ctx, "election-1", "station-1"); !errors.Is(err, domainerrors.ErrNotAggregable) {
		t.Fatalf("expected leaf to be not aggregable, got %v", err)
	}
	if _, err := module.Service.Aggregate(ctx, "election-1", "ghost"); !errors.Is(err, domainerrors.ErrNodeNotFound) {
		t.Fatalf("expected node not found, got %v", err)
	}
}

func TestAggregateFlagsInconsistentChildTotals(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	module.Store.SetNode("election-1", ports.GeoNode{NodeID: "area-1", Level: "area"})
	module.Store.SetNode("election-1", ports.GeoNode{NodeID: "station-1", Level: "station", ParentID: "area-1"})
	module.Store.SetSheet("election-1", entities.ChildSheet{
		SheetID:    "sheet-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Status:     "approved",
		Entries:    []entities.Entry{{PositionID: "president", CandidateID: "candidate-a", Votes: 300}},
		Totals:     entities.Totals{RegisteredVoters: 500, VotesCast: 210, ValidVotes: 200, RejectedVotes: 10},
		TotalsSet:  true,
		Version:    1,
	})

	aggregate, err := module.Service.Aggregate(context.Background(), "election-1", "area-1")
	if err != nil {
		t.Fatalf("aggregate must complete despite a bad leaf: %v", err)
	}
	if len(aggregate.Warnings) == 0 {
		t.Fatalf("expected consistency warning for station-1")
	}
	if aggregate.Warnings[0].ScopeID != "station-1" {
		t.Fatalf("expected warning pinned to station-1, got %+v", aggregate.Warnings[0])
	}
}

func TestRecomputePersistsDerivedSheet(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)

	if _, err := module.Service.Recompute(context.Background(), "election-1", "area-1"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	record, ok := module.Store.DerivedSheet("election-1", "area-1")
	if !ok {
		t.Fatalf("expected derived sheet for area-1")
	}
	if record.Status != "draft" || record.Version != 1 {
		t.Fatalf("expected fresh draft derived sheet, got status=%s version=%d", record.Status, record.Version)
	}
	if record.Aggregate.Totals.VotesCast != 355 {
		t.Fatalf("unexpected persisted totals: %+v", record.Aggregate.Totals)
	}
}

func TestRecomputeRetriesOnceOnConflict(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	module.Store.FailUpserts = 1
	if _, err := module.Service.Recompute(ctx, "election-1", "area-1"); err != nil {
		t.Fatalf("single conflict should be retried: %v", err)
	}

	fresh := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(fresh.Store)
	fresh.Store.FailUpserts = 2
	if _, err := fresh.Service.Recompute(ctx, "election-1", "area-1"); !errors.Is(err, domainerrors.ErrConcurrentModification) {
		t.Fatalf("expected second conflict to propagate, got %v", err)
	}
}

func TestRecomputeLeavesReviewedDerivedSheetAlone(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	if _, err := module.Service.Recompute(ctx, "election-1", "area-1"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	module.Store.SetDerivedStatus("election-1", "area-1", "approved")

	// Children changed, but the reviewed rollup is frozen until rejected.
	module.Store.SetSheet("election-1", entities.ChildSheet{
		SheetID:    "sheet-3",
		ScopeID:    "station-3",
		ScopeLevel: "station",
		Status:     "approved",
		Entries:    []entities.Entry{{PositionID: "president", CandidateID: "candidate-a", Votes: 10}},
		Totals:     entities.Totals{RegisteredVoters: 500, VotesCast: 10, ValidVotes: 10},
		TotalsSet:  true,
		Version:    2,
	})
	if _, err := module.Service.Recompute(ctx, "election-1", "area-1"); err != nil {
		t.Fatalf("recompute against frozen sheet must no-op, not fail: %v", err)
	}

	record, _ := module.Store.DerivedSheet("election-1", "area-1")
	if record.Version != 1 || record.Aggregate.Totals.VotesCast != 355 {
		t.Fatalf("frozen derived sheet must not change, got version=%d totals=%+v", record.Version, record.Aggregate.Totals)
	}
}
