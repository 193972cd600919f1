package httpadapter

import (
	"context"
	"log/slog"

	"tally/contexts/field-operations/officer-registry/application/commands"
	"tally/contexts/field-operations/officer-registry/application/queries"
	"tally/contexts/field-operations/officer-registry/domain/entities"
	"tally/contexts/field-operations/officer-registry/ports"
	httptransport "tally/contexts/field-operations/officer-registry/transport/http"
)

type Handler struct {
	Registry commands.RegistryUseCase
	Queries  queries.RegistryQueryUseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterOfficerHandler(ctx context.Context, actor ports.Actor, req httptransport.RegisterOfficerRequest) (httptransport.OfficerResponse, error) {
	officer, err := h.Registry.RegisterOfficer(ctx, commands.RegisterOfficerCommand{
		Actor:     actor,
		OfficerID: req.OfficerID,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return httptransport.OfficerResponse{}, err
	}
	return toOfficerResponse(officer), nil
}

func (h Handler) GetOfficerHandler(ctx context.Context, officerID string) (httptransport.OfficerResponse, error) {
	officer, err := h.Queries.GetOfficer(ctx, officerID)
	if err != nil {
		return httptransport.OfficerResponse{}, err
	}
	return toOfficerResponse(officer), nil
}

func (h Handler) ListOfficersHandler(ctx context.Context) (httptransport.OfficerListResponse, error) {
	officers, err := h.Queries.ListOfficers(ctx)
	if err != nil {
		return httptransport.OfficerListResponse{}, err
	}
	items := make([]httptransport.OfficerResponse, 0, len(officers))
	for _, officer := range officers {
		items = append(items, toOfficerResponse(officer))
	}
	return httptransport.OfficerListResponse{Items: items}, nil
}

func (h Handler) AssignHandler(ctx context.Context, actor ports.Actor, req httptransport.AssignRequest) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Registry.Assign(ctx, commands.AssignCommand{
		Actor:      actor,
		ElectionID: req.ElectionID,
		OfficerID:  req.OfficerID,
		ScopeID:    req.ScopeID,
		ScopeLevel: req.ScopeLevel,
		Role:       req.Role,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return toAssignmentResponse(assignment), nil
}

func (h Handler) EndAssignmentHandler(ctx context.Context, actor ports.Actor, assignmentID string) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Registry.EndAssignment(ctx, commands.EndAssignmentCommand{
		Actor:        actor,
		AssignmentID: assignmentID,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return toAssignmentResponse(assignment), nil
}

func (h Handler) ListAssignmentsHandler(ctx context.Context, filter ports.AssignmentFilter) (httptransport.AssignmentListResponse, error) {
	assignments, err := h.Queries.ListAssignments(ctx, filter)
	if err != nil {
		return httptransport.AssignmentListResponse{}, err
	}
	items := make([]httptransport.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, toAssignmentResponse(assignment))
	}
	return httptransport.AssignmentListResponse{Items: items}, nil
}

func toOfficerResponse(officer entities.Officer) httptransport.OfficerResponse {
	return httptransport.OfficerResponse{
		OfficerID: officer.OfficerID,
		FullName:  officer.FullName,
		Phone:     officer.Phone,
		Email:     officer.Email,
		CreatedAt: officer.CreatedAt,
	}
}

func toAssignmentResponse(assignment entities.Assignment) httptransport.AssignmentResponse {
	return httptransport.AssignmentResponse{
		AssignmentID: assignment.AssignmentID,
		ElectionID:   assignment.ElectionID,
		OfficerID:    assignment.OfficerID,
		ScopeID:      assignment.ScopeID,
		ScopeLevel:   assignment.ScopeLevel,
		Role:         assignment.Role,
		Active:       assignment.Active,
		AssignedBy:   assignment.AssignedBy,
		AssignedAt:   assignment.AssignedAt,
		EndedBy:      assignment.EndedBy,
		EndedAt:      assignment.EndedAt,
	}
}
