package queries

import (
	"context"
	"strings"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
	"tally/contexts/field-operations/incident-tracker/ports"
)

type IncidentQueryUseCase struct {
	Incidents ports.IncidentRepository
}

func (u IncidentQueryUseCase) GetIncident(ctx context.Context, incidentID string) (entities.Incident, error) {
	return u.Incidents.GetIncident(ctx, strings.TrimSpace(incidentID))
}

func (u IncidentQueryUseCase) ListIncidents(ctx context.Context, filter ports.IncidentFilter) ([]entities.Incident, error) {
	filter.ElectionID = strings.TrimSpace(filter.ElectionID)
	filter.ScopeID = strings.TrimSpace(filter.ScopeID)
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Severity = strings.ToLower(strings.TrimSpace(filter.Severity))
	filter.Type = strings.ToLower(strings.TrimSpace(filter.Type))
	return u.Incidents.ListIncidents(ctx, filter)
}

// CountsByStatus reports open/resolved tallies for dashboard headline cards.
func (u IncidentQueryUseCase) CountsByStatus(ctx context.Context, electionID string) (map[string]int64, error) {
	return u.Incidents.CountsByStatus(ctx, strings.TrimSpace(electionID))
}
