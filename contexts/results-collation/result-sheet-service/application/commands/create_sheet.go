package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "tally/contexts/results-collation/result-sheet-service/application"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

// SheetUseCase orchestrates sheet commands while enforcing the collation
// invariants: capability checks, one authoritative sheet per scope, the
// transition table, totals consistency, and feed emission inside the same
// optimistic-locked save.
type SheetUseCase struct {
	Sheets ports.SheetRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateSheetCommand opens a new hand-edited sheet for a polling station.
type CreateSheetCommand struct {
	Actor      ports.Actor
	ElectionID string
	ScopeID    string
	ScopeLevel string
}

// CreateSheet opens a sheet in draft. Only leaf (station) scopes accept
// manual sheets; rollup sheets exist solely through aggregation.
func (uc SheetUseCase) CreateSheet(ctx context.Context, cmd CreateSheetCommand) (entities.Sheet, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	scopeID := strings.TrimSpace(cmd.ScopeID)
	scopeLevel := strings.ToLower(strings.TrimSpace(cmd.ScopeLevel))

	if electionID == "" || scopeID == "" || !entities.ValidScopeLevel(scopeLevel) {
		logger.Warn("sheet create validation failed",
			"event", "collation_sheet_create_validation_failed",
			"module", "results-collation/result-sheet-service",
			"layer", "application",
			"election_id", electionID,
			"scope_id", scopeID,
			"scope_level", scopeLevel,
		)
		return entities.Sheet{}, domainerrors.ErrInvalidSheetInput
	}
	if !uc.allowed(cmd.Actor, ports.CapabilityRecord) {
		return entities.Sheet{}, domainerrors.ErrPermissionDenied
	}
	if !entities.LeafScopeLevel(scopeLevel) {
		return entities.Sheet{}, domainerrors.ErrDerivedSheetImmutable
	}

	if _, found, err := uc.Sheets.GetSheetByScope(ctx, electionID, scopeID); err != nil {
		return entities.Sheet{}, err
	} else if found {
		return entities.Sheet{}, domainerrors.ErrDuplicateScope
	}

	now := uc.now()
	sheetID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Sheet{}, err
	}
	sheet := entities.Sheet{
		SheetID:    sheetID,
		ElectionID: electionID,
		ScopeID:    scopeID,
		ScopeLevel: scopeLevel,
		Derived:    false,
		Status:     entities.StatusDraft,
		CreatedBy:  strings.TrimSpace(cmd.Actor.OfficerID),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	event, err := uc.newFeedEvent(ctx, sheet, "sheet_created", sheet.CreatedBy, now, nil)
	if err != nil {
		return entities.Sheet{}, err
	}
	if err := uc.Sheets.CreateSheet(ctx, sheet, event); err != nil {
		return entities.Sheet{}, err
	}

	logger.Info("sheet created",
		"event", "collation_sheet_created",
		"module", "results-collation/result-sheet-service",
		"layer", "application",
		"sheet_id", sheet.SheetID,
		"election_id", sheet.ElectionID,
		"scope_id", sheet.ScopeID,
		"created_by", sheet.CreatedBy,
	)
	return sheet, nil
}

func (uc SheetUseCase) allowed(actor ports.Actor, capability string) bool {
	if actor.Can(capability) {
		return true
	}
	application.ResolveLogger(uc.Logger).Warn("capability missing",
		"event", "collation_capability_denied",
		"module", "results-collation/result-sheet-service",
		"layer", "application",
		"officer_id", strings.TrimSpace(actor.OfficerID),
		"capability", capability,
	)
	return false
}

func (uc SheetUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
