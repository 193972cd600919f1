package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	resultsheetservice "tally/contexts/results-collation/result-sheet-service"
	"tally/contexts/results-collation/result-sheet-service/adapters/memory"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
	httptransport "tally/contexts/results-collation/result-sheet-service/transport/http"
)

func collationActor() ports.Actor {
	return ports.Actor{
		OfficerID: "officer-1",
		Capabilities: []string{
			ports.CapabilityRecord,
			ports.CapabilitySubmit,
			ports.CapabilityVerify,
			ports.CapabilityApprove,
			ports.CapabilityCertify,
			ports.CapabilityReject,
		},
	}
}

func createStationSheet(t *testing.T, module resultsheetservice.Module) httptransport.SheetResponse {
	t.Helper()
	sheet, err := module.Handler.CreateSheetHandler(context.Background(), collationActor(), httptransport.CreateSheetRequest{
		ElectionID: "election-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
	})
	if err != nil {
		t.Fatalf("create sheet failed: %v", err)
	}
	return sheet
}

func recordBaseline(t *testing.T, module resultsheetservice.Module, sheetID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), sheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{
			{PositionID: "president", CandidateID: "candidate-a", Votes: 120, VotesInWords: "one hundred twenty"},
			{PositionID: "president", CandidateID: "candidate-b", Votes: 80, VotesInWords: "eighty"},
		},
	}); err != nil {
		t.Fatalf("record entries failed: %v", err)
	}
	if _, err := module.Handler.UpdateTotalsHandler(ctx, collationActor(), sheetID, httptransport.TotalsRequest{
		RegisteredVoters: 500,
		VotesCast:        210,
		ValidVotes:       200,
		RejectedVotes:    10,
	}); err != nil {
		t.Fatalf("record totals failed: %v", err)
	}
}

func TestSheetLifecycleToCertified(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	sheet := createStationSheet(t, module)
	if sheet.Status != string(entities.StatusDraft) {
		t.Fatalf("expected draft status, got %s", sheet.Status)
	}
	recordBaseline(t, module, sheet.SheetID)

	submitted, err := module.Handler.SubmitHandler(ctx, collationActor(), sheet.SheetID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.Status != string(entities.StatusSubmitted) {
		t.Fatalf("expected submitted status, got %s", submitted.Status)
	}
	if submitted.Warning != "" {
		t.Fatalf("unexpected submit warning: %s", submitted.Warning)
	}

	if _, err := module.Handler.VerifyHandler(ctx, collationActor(), sheet.SheetID, httptransport.ReviewRequest{Notes: "checked"}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := module.Handler.ApproveHandler(ctx, collationActor(), sheet.SheetID, httptransport.ReviewRequest{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	certified, err := module.Handler.CertifyHandler(ctx, collationActor(), sheet.SheetID, httptransport.ReviewRequest{})
	if err != nil {
		t.Fatalf("certify failed: %v", err)
	}
	if certified.Status != string(entities.StatusCertified) {
		t.Fatalf("expected certified status, got %s", certified.Status)
	}

	// Certified is terminal: no action, including reject, may touch it.
	_, err = module.Handler.RejectHandler(ctx, collationActor(), sheet.SheetID, httptransport.RejectRequest{Reason: "late dispute"})
	if !errors.Is(err, domainerrors.ErrTerminalState) {
		t.Fatalf("expected terminal state error, got %v", err)
	}
	if _, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), sheet.SheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 1}},
	}); err == nil {
		t.Fatalf("expected certified sheet to refuse entry edits")
	}

	actions := make([]string, 0)
	for _, event := range module.Store.FeedEvents() {
		actions = append(actions, event.Action)
	}
	want := []string{"sheet_created", "sheet_submitted", "sheet_verified", "sheet_approved", "sheet_certified"}
	if len(actions) != len(want) {
		t.Fatalf("expected %d feed events, got %v", len(want), actions)
	}
	for i, action := range want {
		if actions[i] != action {
			t.Fatalf("feed event %d: expected %s, got %s", i, action, actions[i])
		}
	}
}

func TestSheetEntriesUpsertByPositionCandidate(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	sheet := createStationSheet(t, module)

	if _, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), sheet.SheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 10}},
	}); err != nil {
		t.Fatalf("first entry write failed: %v", err)
	}
	updated, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), sheet.SheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 12, VotesInWords: "twelve"}},
	})
	if err != nil {
		t.Fatalf("second entry write failed: %v", err)
	}
	if len(updated.Entries) != 1 {
		t.Fatalf("expected upsert to keep one entry, got %d", len(updated.Entries))
	}
	if updated.Entries[0].Votes != 12 {
		t.Fatalf("expected corrected vote count 12, got %d", updated.Entries[0].Votes)
	}
	if updated.Entries[0].WordsMismatch {
		t.Fatalf("expected matching words tally")
	}
}

func TestSheetEntryWordsMismatchRecordedNotRejected(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	sheet := createStationSheet(t, module)

	updated, err := module.Handler.BulkEntriesHandler(context.Background(), collationActor(), sheet.SheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 13, VotesInWords: "twelve"}},
	})
	if err != nil {
		t.Fatalf("entry write failed: %v", err)
	}
	if !updated.Entries[0].WordsMismatch {
		t.Fatalf("expected words mismatch to be flagged")
	}
}

func TestSheetSubmitRequiresEntriesAndTotals(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	sheet := createStationSheet(t, module)

	_, err := module.Handler.SubmitHandler(context.Background(), collationActor(), sheet.SheetID)
	if !errors.Is(err, domainerrors.ErrSubmitPreconditions) {
		t.Fatalf("expected submit preconditions error, got %v", err)
	}
}

func TestSheetTotalsHardInconsistencyRejected(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	sheet := createStationSheet(t, module)

	_, err := module.Handler.UpdateTotalsHandler(ctx, collationActor(), sheet.SheetID, httptransport.TotalsRequest{
		RegisteredVoters: 500,
		VotesCast:        210,
		ValidVotes:       150,
		RejectedVotes:    10,
	})
	if !errors.Is(err, domainerrors.ErrTotalsInconsistent) {
		t.Fatalf("expected totals inconsistent error, got %v", err)
	}

	stored, err := module.Handler.GetSheetHandler(ctx, sheet.SheetID)
	if err != nil {
		t.Fatalf("get sheet failed: %v", err)
	}
	if stored.TotalsSet {
		t.Fatalf("hard inconsistency must not apply totals")
	}
}

func TestSheetTotalsSoftInconsistencyFlaggedButApplied(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	sheet := createStationSheet(t, module)

	if _, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), sheet.SheetID, httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 250}},
	}); err != nil {
		t.Fatalf("record entries failed: %v", err)
	}

	applied, err := module.Handler.UpdateTotalsHandler(ctx, collationActor(), sheet.SheetID, httptransport.TotalsRequest{
		RegisteredVoters: 500,
		VotesCast:        210,
		ValidVotes:       200,
		RejectedVotes:    10,
	})
	if err != nil {
		t.Fatalf("soft inconsistency must not fail the call: %v", err)
	}
	if applied.Warning == "" {
		t.Fatalf("expected a totals warning on the response")
	}
	if !applied.TotalsSet || !applied.TotalsFlagged {
		t.Fatalf("expected totals applied and flagged, got set=%v flagged=%v", applied.TotalsSet, applied.TotalsFlagged)
	}

	// A flagged sheet still submits; the flag rides along for reviewers.
	submitted, err := module.Handler.SubmitHandler(ctx, collationActor(), sheet.SheetID)
	if err != nil {
		t.Fatalf("submit of flagged sheet failed: %v", err)
	}
	if submitted.Warning == "" {
		t.Fatalf("expected submit to surface the totals flag")
	}
}

func TestSheetRejectReturnsToDraftWithHistory(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	sheet := createStationSheet(t, module)
	recordBaseline(t, module, sheet.SheetID)

	if _, err := module.Handler.SubmitHandler(ctx, collationActor(), sheet.SheetID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err := module.Handler.RejectHandler(ctx, collationActor(), sheet.SheetID, httptransport.RejectRequest{})
	if !errors.Is(err, domainerrors.ErrRejectionReasonRequired) {
		t.Fatalf("expected rejection reason required, got %v", err)
	}

	rejected, err := module.Handler.RejectHandler(ctx, collationActor(), sheet.SheetID, httptransport.RejectRequest{Reason: "totals look wrong"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != string(entities.StatusDraft) {
		t.Fatalf("expected rejected sheet back in draft, got %s", rejected.Status)
	}
	if rejected.RejectionCount != 1 || len(rejected.Rejections) != 1 {
		t.Fatalf("expected one rejection on record, got count=%d history=%d", rejected.RejectionCount, len(rejected.Rejections))
	}
	if rejected.Rejections[0].FromStatus != string(entities.StatusSubmitted) {
		t.Fatalf("expected rejection from submitted, got %s", rejected.Rejections[0].FromStatus)
	}
	if rejected.RejectionReason != "totals look wrong" {
		t.Fatalf("expected reason on the draft, got %q", rejected.RejectionReason)
	}

	// Corrected sheet goes around again; reject from verified also lands in draft.
	resubmitted, err := module.Handler.SubmitHandler(ctx, collationActor(), sheet.SheetID)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	// Resubmission drops the riding reason; the record stays in history.
	if resubmitted.RejectionReason != "" {
		t.Fatalf("expected reason cleared on resubmit, got %q", resubmitted.RejectionReason)
	}
	if len(resubmitted.Rejections) != 1 {
		t.Fatalf("expected rejection history preserved, got %d", len(resubmitted.Rejections))
	}
	if _, err := module.Handler.VerifyHandler(ctx, collationActor(), sheet.SheetID, httptransport.ReviewRequest{}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	second, err := module.Handler.RejectHandler(ctx, collationActor(), sheet.SheetID, httptransport.RejectRequest{Reason: "signature missing"})
	if err != nil {
		t.Fatalf("second reject failed: %v", err)
	}
	if second.RejectionCount != 2 || len(second.Rejections) != 2 {
		t.Fatalf("expected two rejections on record, got count=%d history=%d", second.RejectionCount, len(second.Rejections))
	}
	if second.Rejections[1].FromStatus != string(entities.StatusVerified) {
		t.Fatalf("expected second rejection from verified, got %s", second.Rejections[1].FromStatus)
	}
}

// rendezvousSheetStore holds every reader at the barrier after the fetch,
// so two commands proceed to SaveSheet with the same observed version.
type rendezvousSheetStore struct {
	*memory.Store
	barrier *sync.WaitGroup
}

func (s *rendezvousSheetStore) GetSheet(ctx context.Context, sheetID string) (entities.Sheet, error) {
	sheet, err := s.Store.GetSheet(ctx, sheetID)
	s.barrier.Done()
	s.barrier.Wait()
	return sheet, err
}

func TestSheetSubmitRaceLosesOnce(t *testing.T) {
	store := memory.NewStore(nil)
	module := resultsheetservice.NewModule(resultsheetservice.Dependencies{
		Sheets: store,
		Clock:  store,
		IDGen:  store,
	})
	sheet := createStationSheet(t, module)
	recordBaseline(t, module, sheet.SheetID)

	var barrier sync.WaitGroup
	barrier.Add(2)
	racing := resultsheetservice.NewModule(resultsheetservice.Dependencies{
		Sheets: &rendezvousSheetStore{Store: store, barrier: &barrier},
		Clock:  store,
		IDGen:  store,
	})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := racing.Handler.SubmitHandler(context.Background(), collationActor(), sheet.SheetID)
			errs <- err
		}()
	}

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrConcurrentModification):
			conflicts++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected one winner and one conflict, got wins=%d conflicts=%d", wins, conflicts)
	}

	stored, err := module.Handler.GetSheetHandler(context.Background(), sheet.SheetID)
	if err != nil {
		t.Fatalf("get sheet failed: %v", err)
	}
	if stored.Status != string(entities.StatusSubmitted) {
		t.Fatalf("expected a single clean submit, got %s", stored.Status)
	}
}

func TestSheetCreateDuplicateScope(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	createStationSheet(t, module)

	_, err := module.Handler.CreateSheetHandler(context.Background(), collationActor(), httptransport.CreateSheetRequest{
		ElectionID: "election-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateScope) {
		t.Fatalf("expected duplicate scope error, got %v", err)
	}
}

func TestSheetDerivedRejectsManualEdits(t *testing.T) {
	now := time.Now().UTC()
	module := resultsheetservice.NewInMemoryModule([]entities.Sheet{{
		SheetID:    "derived-1",
		ElectionID: "election-1",
		ScopeID:    "area-1",
		ScopeLevel: "area",
		Derived:    true,
		Status:     entities.StatusDraft,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}}, nil)
	ctx := context.Background()

	if _, err := module.Handler.BulkEntriesHandler(ctx, collationActor(), "derived-1", httptransport.BulkEntriesRequest{
		Entries: []httptransport.EntryRequest{{PositionID: "president", CandidateID: "candidate-a", Votes: 5}},
	}); !errors.Is(err, domainerrors.ErrDerivedSheetImmutable) {
		t.Fatalf("expected derived sheet immutable on entries, got %v", err)
	}
	if _, err := module.Handler.UpdateTotalsHandler(ctx, collationActor(), "derived-1", httptransport.TotalsRequest{
		RegisteredVoters: 10,
	}); !errors.Is(err, domainerrors.ErrDerivedSheetImmutable) {
		t.Fatalf("expected derived sheet immutable on totals, got %v", err)
	}
}

func TestSheetPermissionDenied(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	sheet := createStationSheet(t, module)
	recordBaseline(t, module, sheet.SheetID)

	readOnly := ports.Actor{OfficerID: "officer-2", Capabilities: []string{ports.CapabilityRecord}}
	_, err := module.Handler.SubmitHandler(context.Background(), readOnly, sheet.SheetID)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestSheetSaveDetectsStaleVersion(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	created := createStationSheet(t, module)

	stored, err := module.Store.GetSheet(ctx, created.SheetID)
	if err != nil {
		t.Fatalf("get sheet failed: %v", err)
	}
	stale := stored.Version - 1
	stored.Version = stored.Version + 1
	if err := module.Store.SaveSheet(ctx, stored, stale, nil); !errors.Is(err, domainerrors.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification on stale save, got %v", err)
	}
}

func TestSheetListFilters(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	for _, scope := range []string{"station-1", "station-2"} {
		if _, err := module.Handler.CreateSheetHandler(ctx, collationActor(), httptransport.CreateSheetRequest{
			ElectionID: "election-1",
			ScopeID:    scope,
			ScopeLevel: "station",
		}); err != nil {
			t.Fatalf("create sheet for %s failed: %v", scope, err)
		}
	}

	byScope, err := module.Handler.ListSheetsHandler(ctx, ports.SheetFilter{ElectionID: "election-1", ScopeID: "station-2"})
	if err != nil {
		t.Fatalf("list by scope failed: %v", err)
	}
	if len(byScope.Items) != 1 || byScope.Items[0].ScopeID != "station-2" {
		t.Fatalf("expected exactly the station-2 sheet, got %+v", byScope.Items)
	}

	byStatus, err := module.Handler.ListSheetsHandler(ctx, ports.SheetFilter{ElectionID: "election-1", Status: entities.StatusDraft})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if len(byStatus.Items) != 2 {
		t.Fatalf("expected two draft sheets, got %d", len(byStatus.Items))
	}
}
