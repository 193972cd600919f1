package commands

import (
	"context"
	"strings"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	"tally/contexts/field-operations/incident-tracker/ports"
)

type ResolveIncidentCommand struct {
	Actor           ports.Actor
	IncidentID      string
	ResolutionNotes string
}

// ResolveIncident closes an open incident. Notes are mandatory and
// resolution is terminal: a second resolve fails regardless of notes.
func (u IncidentUseCase) ResolveIncident(ctx context.Context, cmd ResolveIncidentCommand) (entities.Incident, error) {
	logger := resolveLogger(u.Logger)
	if !cmd.Actor.Can(ports.CapabilityResolve) {
		return entities.Incident{}, domainerrors.ErrPermissionDenied
	}
	notes := strings.TrimSpace(cmd.ResolutionNotes)
	if notes == "" {
		return entities.Incident{}, domainerrors.ErrResolutionNotesRequired
	}
	incident, err := u.Incidents.GetIncident(ctx, strings.TrimSpace(cmd.IncidentID))
	if err != nil {
		return entities.Incident{}, err
	}
	if incident.Status == entities.StatusResolved {
		return entities.Incident{}, domainerrors.ErrAlreadyResolved
	}
	now := u.now()
	incident.Status = entities.StatusResolved
	incident.ResolvedBy = cmd.Actor.OfficerID
	incident.ResolvedAt = &now
	incident.ResolutionNotes = notes

	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Incident{}, err
	}
	event := ports.FeedEvent{
		EventID:    eventID,
		ElectionID: incident.ElectionID,
		ActorID:    cmd.Actor.OfficerID,
		Action:     "incident_resolved",
		ScopeID:    incident.ScopeID,
		ScopeLevel: incident.ScopeLevel,
		Metadata: map[string]any{
			"incident_id": incident.IncidentID,
			"type":        incident.Type,
			"severity":    incident.Severity,
		},
		PerformedAt: now,
	}
	if err := u.Incidents.SaveIncident(ctx, incident, &event); err != nil {
		return entities.Incident{}, err
	}
	logger.Info("incident resolved",
		"event", "field_incident_resolved",
		"module", "field-operations/incident-tracker",
		"layer", "application",
		"incident_id", incident.IncidentID,
		"election_id", incident.ElectionID,
		"scope_id", incident.ScopeID,
		"resolved_by", cmd.Actor.OfficerID,
	)
	return incident, nil
}
