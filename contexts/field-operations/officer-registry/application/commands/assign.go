package commands

import (
	"context"
	"strings"

	"tally/contexts/field-operations/officer-registry/domain/entities"
	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
	"tally/contexts/field-operations/officer-registry/ports"
)

type AssignCommand struct {
	Actor      ports.Actor
	ElectionID string
	OfficerID  string
	ScopeID    string
	ScopeLevel string
	Role       string
}

// Assign staffs an officer on a scope. Exclusivity for the single-holder
// roles is decided by the store atomically with the insert, so the losing
// side of a concurrent race gets the domain error, never a double booking.
func (u RegistryUseCase) Assign(ctx context.Context, cmd AssignCommand) (entities.Assignment, error) {
	logger := resolveLogger(u.Logger)
	if !cmd.Actor.Can(ports.CapabilityAssign) {
		return entities.Assignment{}, domainerrors.ErrPermissionDenied
	}
	electionID := strings.TrimSpace(cmd.ElectionID)
	officerID := strings.TrimSpace(cmd.OfficerID)
	scopeID := strings.TrimSpace(cmd.ScopeID)
	scopeLevel := strings.ToLower(strings.TrimSpace(cmd.ScopeLevel))
	role := strings.ToLower(strings.TrimSpace(cmd.Role))
	if electionID == "" || officerID == "" || scopeID == "" || scopeLevel == "" {
		return entities.Assignment{}, domainerrors.ErrInvalidAssignmentInput
	}
	if !entities.ValidRole(role) {
		return entities.Assignment{}, domainerrors.ErrInvalidRole
	}
	if _, err := u.Officers.GetOfficer(ctx, officerID); err != nil {
		return entities.Assignment{}, err
	}

	assignmentID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Assignment{}, err
	}
	now := u.now()
	assignment := entities.Assignment{
		AssignmentID: assignmentID,
		ElectionID:   electionID,
		OfficerID:    officerID,
		ScopeID:      scopeID,
		ScopeLevel:   scopeLevel,
		Role:         role,
		Active:       true,
		AssignedBy:   cmd.Actor.OfficerID,
		AssignedAt:   now,
	}
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Assignment{}, err
	}
	event := ports.FeedEvent{
		EventID:    eventID,
		ElectionID: electionID,
		ActorID:    cmd.Actor.OfficerID,
		Action:     "officer_assigned",
		ScopeID:    scopeID,
		ScopeLevel: scopeLevel,
		Metadata: map[string]any{
			"officer_id": officerID,
			"role":       role,
		},
		PerformedAt: now,
	}
	if err := u.Assignments.CreateAssignment(ctx, assignment, &event); err != nil {
		logger.Warn("assignment rejected",
			"event", "field_officer_assign_rejected",
			"module", "field-operations/officer-registry",
			"layer", "application",
			"election_id", electionID,
			"officer_id", officerID,
			"scope_id", scopeID,
			"role", role,
			"error", err.Error(),
		)
		return entities.Assignment{}, err
	}
	logger.Info("officer assigned",
		"event", "field_officer_assigned",
		"module", "field-operations/officer-registry",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"election_id", electionID,
		"officer_id", officerID,
		"scope_id", scopeID,
		"role", role,
		"assigned_by", cmd.Actor.OfficerID,
	)
	return assignment, nil
}

type EndAssignmentCommand struct {
	Actor        ports.Actor
	AssignmentID string
}

// EndAssignment retires an active assignment, freeing the scope and the
// officer for restaffing. Ended assignments stay on record.
func (u RegistryUseCase) EndAssignment(ctx context.Context, cmd EndAssignmentCommand) (entities.Assignment, error) {
	logger := resolveLogger(u.Logger)
	if !cmd.Actor.Can(ports.CapabilityAssign) {
		return entities.Assignment{}, domainerrors.ErrPermissionDenied
	}
	assignment, err := u.Assignments.GetAssignment(ctx, strings.TrimSpace(cmd.AssignmentID))
	if err != nil {
		return entities.Assignment{}, err
	}
	if !assignment.Active {
		return entities.Assignment{}, domainerrors.ErrAssignmentEnded
	}
	now := u.now()
	assignment.Active = false
	assignment.EndedBy = cmd.Actor.OfficerID
	assignment.EndedAt = &now

	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Assignment{}, err
	}
	event := ports.FeedEvent{
		EventID:    eventID,
		ElectionID: assignment.ElectionID,
		ActorID:    cmd.Actor.OfficerID,
		Action:     "officer_unassigned",
		ScopeID:    assignment.ScopeID,
		ScopeLevel: assignment.ScopeLevel,
		Metadata: map[string]any{
			"officer_id": assignment.OfficerID,
			"role":       assignment.Role,
		},
		PerformedAt: now,
	}
	if err := u.Assignments.EndAssignment(ctx, assignment, &event); err != nil {
		return entities.Assignment{}, err
	}
	logger.Info("assignment ended",
		"event", "field_officer_assignment_ended",
		"module", "field-operations/officer-registry",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"officer_id", assignment.OfficerID,
		"scope_id", assignment.ScopeID,
		"ended_by", cmd.Actor.OfficerID,
	)
	return assignment, nil
}
