package unit

import (
	"context"
	"errors"
	"sync"
	"testing"

	officerregistry "tally/contexts/field-operations/officer-registry"
	"tally/contexts/field-operations/officer-registry/domain/entities"
	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
	"tally/contexts/field-operations/officer-registry/ports"
	httptransport "tally/contexts/field-operations/officer-registry/transport/http"
)

func staffingActor() ports.Actor {
	return ports.Actor{
		OfficerID:    "admin-1",
		Capabilities: []string{ports.CapabilityAssign},
	}
}

func registerOfficer(t *testing.T, module officerregistry.Module, officerID string) {
	t.Helper()
	_, err := module.Handler.RegisterOfficerHandler(context.Background(), staffingActor(), httptransport.RegisterOfficerRequest{
		OfficerID: officerID,
		FullName:  "Ngozi Okafor",
		Phone:     "+2348012345678",
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", officerID, err)
	}
}

func assignOfficer(t *testing.T, module officerregistry.Module, officerID, scopeID, role string) httptransport.AssignmentResponse {
	t.Helper()
	assignment, err := module.Handler.AssignHandler(context.Background(), staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  officerID,
		ScopeID:    scopeID,
		ScopeLevel: "station",
		Role:       role,
	})
	if err != nil {
		t.Fatalf("assign %s to %s failed: %v", officerID, scopeID, err)
	}
	return assignment
}

func TestOfficerRegistration(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	registerOfficer(t, module, "officer-1")
	officer, err := module.Handler.GetOfficerHandler(ctx, "officer-1")
	if err != nil {
		t.Fatalf("get officer failed: %v", err)
	}
	if officer.FullName != "Ngozi Okafor" {
		t.Fatalf("unexpected officer: %+v", officer)
	}

	_, err = module.Handler.RegisterOfficerHandler(ctx, staffingActor(), httptransport.RegisterOfficerRequest{
		OfficerID: "officer-1",
		FullName:  "Someone Else",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateOfficer) {
		t.Fatalf("expected duplicate officer, got %v", err)
	}

	_, err = module.Handler.RegisterOfficerHandler(ctx, staffingActor(), httptransport.RegisterOfficerRequest{
		OfficerID: "officer-2",
	})
	if !errors.Is(err, domainerrors.ErrInvalidOfficerInput) {
		t.Fatalf("expected invalid input for missing name, got %v", err)
	}
}

func TestAssignmentScopeExclusivity(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")
	registerOfficer(t, module, "officer-2")

	assignment := assignOfficer(t, module, "officer-1", "station-1", entities.RolePresiding)
	if !assignment.Active || assignment.AssignedBy != "admin-1" {
		t.Fatalf("unexpected assignment: %+v", assignment)
	}

	// The scope already has an active presiding officer.
	_, err := module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "officer-2",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Role:       entities.RolePresiding,
	})
	if !errors.Is(err, domainerrors.ErrScopeAlreadyAssigned) {
		t.Fatalf("expected scope exclusivity error, got %v", err)
	}

	// The officer already holds an active exclusive post elsewhere.
	_, err = module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "officer-1",
		ScopeID:    "station-2",
		ScopeLevel: "station",
		Role:       entities.RoleReturning,
	})
	if !errors.Is(err, domainerrors.ErrOfficerAlreadyAssigned) {
		t.Fatalf("expected officer exclusivity error, got %v", err)
	}

	// Collation clerks are not exclusive: the scope can take several.
	assignOfficer(t, module, "officer-2", "station-1", entities.RoleCollationClerk)
	registerOfficer(t, module, "officer-3")
	assignOfficer(t, module, "officer-3", "station-1", entities.RoleCollationClerk)
}

func TestAssignmentOfficerScopePairUnique(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")

	first := assignOfficer(t, module, "officer-1", "station-1", entities.RoleCollationClerk)

	// Non-exclusive roles still admit one active assignment per officer
	// and scope.
	_, err := module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "officer-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Role:       entities.RoleCollationClerk,
	})
	if !errors.Is(err, domainerrors.ErrOfficerAlreadyAssigned) {
		t.Fatalf("expected duplicate pair to be refused, got %v", err)
	}

	// The same clerk can still cover another scope, and after ending the
	// first post the pair is free again.
	assignOfficer(t, module, "officer-1", "station-2", entities.RoleCollationClerk)
	if _, err := module.Handler.EndAssignmentHandler(ctx, staffingActor(), first.AssignmentID); err != nil {
		t.Fatalf("end assignment failed: %v", err)
	}
	assignOfficer(t, module, "officer-1", "station-1", entities.RoleCollationClerk)
}

func TestAssignmentRaceLosesOnce(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")
	registerOfficer(t, module, "officer-2")

	var start sync.WaitGroup
	start.Add(1)
	errs := make(chan error, 2)
	for _, officerID := range []string{"officer-1", "officer-2"} {
		officerID := officerID
		go func() {
			start.Wait()
			_, err := module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
				ElectionID: "election-1",
				OfficerID:  officerID,
				ScopeID:    "station-1",
				ScopeLevel: "station",
				Role:       entities.RolePresiding,
			})
			errs <- err
		}()
	}
	start.Done()

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrScopeAlreadyAssigned):
			conflicts++
		default:
			t.Fatalf("unexpected assign error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected one winner and one conflict, got wins=%d conflicts=%d", wins, conflicts)
	}

	active, err := module.Handler.ListAssignmentsHandler(ctx, ports.AssignmentFilter{
		ScopeID:    "station-1",
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active.Items) != 1 {
		t.Fatalf("expected a single active presiding officer, got %d", len(active.Items))
	}
}

func TestEndAssignmentFreesScopeAndOfficer(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")
	registerOfficer(t, module, "officer-2")

	assignment := assignOfficer(t, module, "officer-1", "station-1", entities.RolePresiding)

	ended, err := module.Handler.EndAssignmentHandler(ctx, staffingActor(), assignment.AssignmentID)
	if err != nil {
		t.Fatalf("end assignment failed: %v", err)
	}
	if ended.Active || ended.EndedAt == nil || ended.EndedBy != "admin-1" {
		t.Fatalf("unexpected ended assignment: %+v", ended)
	}

	if _, err := module.Handler.EndAssignmentHandler(ctx, staffingActor(), assignment.AssignmentID); !errors.Is(err, domainerrors.ErrAssignmentEnded) {
		t.Fatalf("expected already-ended error, got %v", err)
	}

	// Both the scope and the officer can be restaffed.
	assignOfficer(t, module, "officer-2", "station-1", entities.RolePresiding)
	assignOfficer(t, module, "officer-1", "station-2", entities.RolePresiding)
}

func TestAssignmentInputValidation(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")

	_, err := module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "officer-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Role:       "supervisor",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}

	_, err = module.Handler.AssignHandler(ctx, staffingActor(), httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "ghost",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Role:       entities.RolePresiding,
	})
	if !errors.Is(err, domainerrors.ErrOfficerNotFound) {
		t.Fatalf("expected officer not found, got %v", err)
	}

	nobody := ports.Actor{OfficerID: "viewer-1"}
	if _, err := module.Handler.RegisterOfficerHandler(ctx, nobody, httptransport.RegisterOfficerRequest{
		OfficerID: "officer-9",
		FullName:  "No Grants",
	}); !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if _, err := module.Handler.AssignHandler(ctx, nobody, httptransport.AssignRequest{
		ElectionID: "election-1",
		OfficerID:  "officer-1",
		ScopeID:    "station-1",
		ScopeLevel: "station",
		Role:       entities.RolePresiding,
	}); !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestAssignmentListFiltersAndFeed(t *testing.T) {
	module := officerregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registerOfficer(t, module, "officer-1")
	registerOfficer(t, module, "officer-2")

	first := assignOfficer(t, module, "officer-1", "station-1", entities.RolePresiding)
	assignOfficer(t, module, "officer-2", "station-2", entities.RolePresiding)
	if _, err := module.Handler.EndAssignmentHandler(ctx, staffingActor(), first.AssignmentID); err != nil {
		t.Fatalf("end assignment failed: %v", err)
	}

	active, err := module.Handler.ListAssignmentsHandler(ctx, ports.AssignmentFilter{
		ElectionID: "election-1",
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active.Items) != 1 || active.Items[0].OfficerID != "officer-2" {
		t.Fatalf("unexpected active assignments: %+v", active.Items)
	}

	all, err := module.Handler.ListAssignmentsHandler(ctx, ports.AssignmentFilter{ElectionID: "election-1"})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("expected ended assignment on record, got %d", len(all.Items))
	}

	byScope, err := module.Handler.ListAssignmentsHandler(ctx, ports.AssignmentFilter{ScopeID: "station-2"})
	if err != nil {
		t.Fatalf("list by scope failed: %v", err)
	}
	if len(byScope.Items) != 1 || byScope.Items[0].ScopeID != "station-2" {
		t.Fatalf("unexpected scope filter result: %+v", byScope.Items)
	}

	actions := make([]string, 0)
	for _, event := range module.Store.FeedEvents() {
		actions = append(actions, event.Action)
	}
	want := []string{"officer_assigned", "officer_assigned", "officer_unassigned"}
	if len(actions) != len(want) {
		t.Fatalf("expected %d feed events, got %v", len(want), actions)
	}
	for i, action := range want {
		if actions[i] != action {
			t.Fatalf("feed event %d: expected %s, got %s", i, action, actions[i])
		}
	}
}
