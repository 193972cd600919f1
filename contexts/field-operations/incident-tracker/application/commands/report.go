package commands

import (
	"context"
	"log/slog"
	"time"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	"tally/contexts/field-operations/incident-tracker/ports"
)

type IncidentUseCase struct {
	Incidents ports.IncidentRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

type ReportIncidentCommand struct {
	Actor       ports.Actor
	ElectionID  string
	ScopeID     string
	ScopeLevel  string
	Type        string
	Severity    string
	Description string
}

// ReportIncident opens a new incident against a scope.
func (u IncidentUseCase) ReportIncident(ctx context.Context, cmd ReportIncidentCommand) (entities.Incident, error) {
	logger := resolveLogger(u.Logger)
	if !cmd.Actor.Can(ports.CapabilityReport) {
		return entities.Incident{}, domainerrors.ErrPermissionDenied
	}
	now := u.now()
	incident := entities.Incident{
		ElectionID:  cmd.ElectionID,
		ScopeID:     cmd.ScopeID,
		ScopeLevel:  cmd.ScopeLevel,
		Type:        cmd.Type,
		Severity:    cmd.Severity,
		Description: cmd.Description,
		Status:      entities.StatusOpen,
		ReportedBy:  cmd.Actor.OfficerID,
		ReportedAt:  now,
	}
	if err := entities.ValidateIncident(&incident); err != nil {
		logger.Warn("incident report validation failed",
			"event", "field_incident_report_validation_failed",
			"module", "field-operations/incident-tracker",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"scope_id", cmd.ScopeID,
			"error", err.Error(),
		)
		return entities.Incident{}, err
	}
	incidentID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Incident{}, err
	}
	incident.IncidentID = incidentID

	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Incident{}, err
	}
	event := ports.FeedEvent{
		EventID:    eventID,
		ElectionID: incident.ElectionID,
		ActorID:    cmd.Actor.OfficerID,
		Action:     "incident_reported",
		ScopeID:    incident.ScopeID,
		ScopeLevel: incident.ScopeLevel,
		Metadata: map[string]any{
			"incident_id": incident.IncidentID,
			"type":        incident.Type,
			"severity":    incident.Severity,
		},
		PerformedAt: now,
	}
	if err := u.Incidents.CreateIncident(ctx, incident, &event); err != nil {
		return entities.Incident{}, err
	}
	logger.Info("incident reported",
		"event", "field_incident_reported",
		"module", "field-operations/incident-tracker",
		"layer", "application",
		"incident_id", incident.IncidentID,
		"election_id", incident.ElectionID,
		"scope_id", incident.ScopeID,
		"type", incident.Type,
		"severity", incident.Severity,
		"reported_by", cmd.Actor.OfficerID,
	)
	return incident, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func (u IncidentUseCase) now() time.Time {
	return u.Clock.Now().UTC()
}
