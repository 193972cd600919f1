package commands

import (
	"context"
	"log/slog"
	"time"

	"tally/contexts/field-operations/officer-registry/domain/entities"
	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
	"tally/contexts/field-operations/officer-registry/ports"
)

type RegistryUseCase struct {
	Officers    ports.OfficerRepository
	Assignments ports.AssignmentRepository
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

type RegisterOfficerCommand struct {
	Actor     ports.Actor
	OfficerID string
	FullName  string
	Phone     string
	Email     string
}

// RegisterOfficer records a new officer. Registration carries no scope or
// role; staffing happens through Assign.
func (u RegistryUseCase) RegisterOfficer(ctx context.Context, cmd RegisterOfficerCommand) (entities.Officer, error) {
	logger := resolveLogger(u.Logger)
	if !cmd.Actor.Can(ports.CapabilityAssign) {
		return entities.Officer{}, domainerrors.ErrPermissionDenied
	}
	officer := entities.Officer{
		OfficerID: cmd.OfficerID,
		FullName:  cmd.FullName,
		Phone:     cmd.Phone,
		Email:     cmd.Email,
		CreatedAt: u.now(),
	}
	if err := entities.ValidateOfficer(&officer); err != nil {
		logger.Warn("officer registration validation failed",
			"event", "field_officer_register_validation_failed",
			"module", "field-operations/officer-registry",
			"layer", "application",
			"officer_id", cmd.OfficerID,
			"error", err.Error(),
		)
		return entities.Officer{}, err
	}
	if err := u.Officers.CreateOfficer(ctx, officer); err != nil {
		return entities.Officer{}, err
	}
	logger.Info("officer registered",
		"event", "field_officer_registered",
		"module", "field-operations/officer-registry",
		"layer", "application",
		"officer_id", officer.OfficerID,
		"registered_by", cmd.Actor.OfficerID,
	)
	return officer, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func (u RegistryUseCase) now() time.Time {
	return u.Clock.Now().UTC()
}
