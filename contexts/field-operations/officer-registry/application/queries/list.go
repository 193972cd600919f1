package queries

import (
	"context"
	"strings"

	"tally/contexts/field-operations/officer-registry/domain/entities"
	"tally/contexts/field-operations/officer-registry/ports"
)

type RegistryQueryUseCase struct {
	Officers    ports.OfficerRepository
	Assignments ports.AssignmentRepository
}

func (u RegistryQueryUseCase) GetOfficer(ctx context.Context, officerID string) (entities.Officer, error) {
	return u.Officers.GetOfficer(ctx, strings.TrimSpace(officerID))
}

func (u RegistryQueryUseCase) ListOfficers(ctx context.Context) ([]entities.Officer, error) {
	return u.Officers.ListOfficers(ctx)
}

func (u RegistryQueryUseCase) ListAssignments(ctx context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	filter.ElectionID = strings.TrimSpace(filter.ElectionID)
	filter.OfficerID = strings.TrimSpace(filter.OfficerID)
	filter.ScopeID = strings.TrimSpace(filter.ScopeID)
	filter.Role = strings.ToLower(strings.TrimSpace(filter.Role))
	return u.Assignments.ListAssignments(ctx, filter)
}
