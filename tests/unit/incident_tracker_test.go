package unit

import (
	"context"
	"errors"
	"testing"

	incidenttracker "tally/contexts/field-operations/incident-tracker"
	"tally/contexts/field-operations/incident-tracker/domain/entities"
	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	"tally/contexts/field-operations/incident-tracker/ports"
	httptransport "tally/contexts/field-operations/incident-tracker/transport/http"
)

func incidentActor() ports.Actor {
	return ports.Actor{
		OfficerID:    "officer-1",
		Capabilities: []string{ports.CapabilityReport, ports.CapabilityResolve},
	}
}

func reportIncident(t *testing.T, module incidenttracker.Module, scopeID, severity string) httptransport.IncidentResponse {
	t.Helper()
	incident, err := module.Handler.ReportIncidentHandler(context.Background(), incidentActor(), httptransport.ReportIncidentRequest{
		ElectionID:  "election-1",
		ScopeID:     scopeID,
		ScopeLevel:  "station",
		Type:        entities.TypeBallotDispute,
		Severity:    severity,
		Description: "dispute over rejected ballots",
	})
	if err != nil {
		t.Fatalf("report incident failed: %v", err)
	}
	return incident
}

func TestIncidentReportAndResolve(t *testing.T) {
	module := incidenttracker.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	incident := reportIncident(t, module, "station-1", entities.SeverityHigh)
	if incident.Status != entities.StatusOpen || incident.ReportedBy != "officer-1" {
		t.Fatalf("unexpected reported incident: %+v", incident)
	}

	resolved, err := module.Handler.ResolveIncidentHandler(ctx, incidentActor(), incident.IncidentID, httptransport.ResolveIncidentRequest{
		ResolutionNotes: "recount agreed with party agents",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != entities.StatusResolved || resolved.ResolvedAt == nil || resolved.ResolvedBy != "officer-1" {
		t.Fatalf("unexpected resolved incident: %+v", resolved)
	}

	if _, err := module.Handler.ResolveIncidentHandler(ctx, incidentActor(), incident.IncidentID, httptransport.ResolveIncidentRequest{
		ResolutionNotes: "again",
	}); !errors.Is(err, domainerrors.ErrAlreadyResolved) {
		t.Fatalf("expected already resolved, got %v", err)
	}

	actions := make([]string, 0)
	for _, event := range module.Store.FeedEvents() {
		actions = append(actions, event.Action)
	}
	want := []string{"incident_reported", "incident_resolved"}
	if len(actions) != len(want) {
		t.Fatalf("expected %d feed events, got %v", len(want), actions)
	}
	for i, action := range want {
		if actions[i] != action {
			t.Fatalf("feed event %d: expected %s, got %s", i, action, actions[i])
		}
	}
}

func TestIncidentResolutionRequiresNotes(t *testing.T) {
	module := incidenttracker.NewInMemoryModule(nil, nil)
	incident := reportIncident(t, module, "station-1", entities.SeverityLow)

	_, err := module.Handler.ResolveIncidentHandler(context.Background(), incidentActor(), incident.IncidentID, httptransport.ResolveIncidentRequest{
		ResolutionNotes: "   ",
	})
	if !errors.Is(err, domainerrors.ErrResolutionNotesRequired) {
		t.Fatalf("expected resolution notes required, got %v", err)
	}
}

func TestIncidentReportValidation(t *testing.T) {
	module := incidenttracker.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	_, err := module.Handler.ReportIncidentHandler(ctx, incidentActor(), httptransport.ReportIncidentRequest{
		ElectionID:  "election-1",
		ScopeID:     "station-1",
		ScopeLevel:  "station",
		Type:        entities.TypeSecurity,
		Severity:    "catastrophic",
		Description: "x",
	})
	if !errors.Is(err, domainerrors.ErrInvalidSeverity) {
		t.Fatalf("expected invalid severity, got %v", err)
	}

	_, err = module.Handler.ReportIncidentHandler(ctx, incidentActor(), httptransport.ReportIncidentRequest{
		ElectionID:  "election-1",
		ScopeID:     "station-1",
		ScopeLevel:  "station",
		Type:        "rumor",
		Severity:    entities.SeverityLow,
		Description: "x",
	})
	if !errors.Is(err, domainerrors.ErrInvalidIncidentType) {
		t.Fatalf("expected invalid incident type, got %v", err)
	}

	nobody := ports.Actor{OfficerID: "viewer-1"}
	_, err = module.Handler.ReportIncidentHandler(ctx, nobody, httptransport.ReportIncidentRequest{
		ElectionID:  "election-1",
		ScopeID:     "station-1",
		ScopeLevel:  "station",
		Type:        entities.TypeOther,
		Severity:    entities.SeverityLow,
		Description: "x",
	})
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	if _, err := module.Handler.GetIncidentHandler(ctx, "ghost"); !errors.Is(err, domainerrors.ErrIncidentNotFound) {
		t.Fatalf("expected incident not found, got %v", err)
	}
}

func TestIncidentListFiltersAndCounts(t *testing.T) {
	module := incidenttracker.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	reportIncident(t, module, "station-1", entities.SeverityHigh)
	second := reportIncident(t, module, "station-2", entities.SeverityLow)
	reportIncident(t, module, "station-2", entities.SeverityCritical)
	if _, err := module.Handler.ResolveIncidentHandler(ctx, incidentActor(), second.IncidentID, httptransport.ResolveIncidentRequest{
		ResolutionNotes: "power restored",
	}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	open, err := module.Handler.ListIncidentsHandler(ctx, ports.IncidentFilter{
		ElectionID: "election-1",
		Status:     entities.StatusOpen,
	})
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}
	if len(open.Items) != 2 {
		t.Fatalf("expected 2 open incidents, got %d", len(open.Items))
	}

	byScope, err := module.Handler.ListIncidentsHandler(ctx, ports.IncidentFilter{ScopeID: "station-2"})
	if err != nil {
		t.Fatalf("list by scope failed: %v", err)
	}
	if len(byScope.Items) != 2 {
		t.Fatalf("expected 2 incidents at station-2, got %d", len(byScope.Items))
	}

	bySeverity, err := module.Handler.ListIncidentsHandler(ctx, ports.IncidentFilter{Severity: entities.SeverityCritical})
	if err != nil {
		t.Fatalf("list by severity failed: %v", err)
	}
	if len(bySeverity.Items) != 1 {
		t.Fatalf("expected 1 critical incident, got %d", len(bySeverity.Items))
	}

	counts, err := module.Handler.CountsHandler(ctx, "election-1")
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts.Open != 2 || counts.Resolved != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
