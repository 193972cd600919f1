package httpadapter

import (
	"context"
	"log/slog"

	"tally/contexts/field-operations/incident-tracker/application/commands"
	"tally/contexts/field-operations/incident-tracker/application/queries"
	"tally/contexts/field-operations/incident-tracker/domain/entities"
	"tally/contexts/field-operations/incident-tracker/ports"
	httptransport "tally/contexts/field-operations/incident-tracker/transport/http"
)

type Handler struct {
	Incidents commands.IncidentUseCase
	Queries   queries.IncidentQueryUseCase
	Logger    *slog.Logger
}

func (h Handler) ReportIncidentHandler(ctx context.Context, actor ports.Actor, req httptransport.ReportIncidentRequest) (httptransport.IncidentResponse, error) {
	incident, err := h.Incidents.ReportIncident(ctx, commands.ReportIncidentCommand{
		Actor:       actor,
		ElectionID:  req.ElectionID,
		ScopeID:     req.ScopeID,
		ScopeLevel:  req.ScopeLevel,
		Type:        req.Type,
		Severity:    req.Severity,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.IncidentResponse{}, err
	}
	return toIncidentResponse(incident), nil
}

func (h Handler) ResolveIncidentHandler(ctx context.Context, actor ports.Actor, incidentID string, req httptransport.ResolveIncidentRequest) (httptransport.IncidentResponse, error) {
	incident, err := h.Incidents.ResolveIncident(ctx, commands.ResolveIncidentCommand{
		Actor:           actor,
		IncidentID:      incidentID,
		ResolutionNotes: req.ResolutionNotes,
	})
	if err != nil {
		return httptransport.IncidentResponse{}, err
	}
	return toIncidentResponse(incident), nil
}

func (h Handler) GetIncidentHandler(ctx context.Context, incidentID string) (httptransport.IncidentResponse, error) {
	incident, err := h.Queries.GetIncident(ctx, incidentID)
	if err != nil {
		return httptransport.IncidentResponse{}, err
	}
	return toIncidentResponse(incident), nil
}

func (h Handler) ListIncidentsHandler(ctx context.Context, filter ports.IncidentFilter) (httptransport.IncidentListResponse, error) {
	incidents, err := h.Queries.ListIncidents(ctx, filter)
	if err != nil {
		return httptransport.IncidentListResponse{}, err
	}
	items := make([]httptransport.IncidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		items = append(items, toIncidentResponse(incident))
	}
	return httptransport.IncidentListResponse{Items: items}, nil
}

func (h Handler) CountsHandler(ctx context.Context, electionID string) (httptransport.IncidentCountsResponse, error) {
	counts, err := h.Queries.CountsByStatus(ctx, electionID)
	if err != nil {
		return httptransport.IncidentCountsResponse{}, err
	}
	return httptransport.IncidentCountsResponse{
		Open:     counts[entities.StatusOpen],
		Resolved: counts[entities.StatusResolved],
	}, nil
}

func toIncidentResponse(incident entities.Incident) httptransport.IncidentResponse {
	return httptransport.IncidentResponse{
		IncidentID:      incident.IncidentID,
		ElectionID:      incident.ElectionID,
		ScopeID:         incident.ScopeID,
		ScopeLevel:      incident.ScopeLevel,
		Type:            incident.Type,
		Severity:        incident.Severity,
		Description:     incident.Description,
		Status:          incident.Status,
		ReportedBy:      incident.ReportedBy,
		ReportedAt:      incident.ReportedAt,
		ResolvedBy:      incident.ResolvedBy,
		ResolvedAt:      incident.ResolvedAt,
		ResolutionNotes: incident.ResolutionNotes,
	}
}
