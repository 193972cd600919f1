package queries

import (
	"context"
	"strings"

	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

type SheetQueryUseCase struct {
	Sheets ports.SheetRepository
}

func (uc SheetQueryUseCase) GetSheet(ctx context.Context, sheetID string) (entities.Sheet, error) {
	if strings.TrimSpace(sheetID) == "" {
		return entities.Sheet{}, domainerrors.ErrSheetNotFound
	}
	return uc.Sheets.GetSheet(ctx, sheetID)
}

func (uc SheetQueryUseCase) GetSheetByScope(ctx context.Context, electionID string, scopeID string) (entities.Sheet, bool, error) {
	if strings.TrimSpace(electionID) == "" || strings.TrimSpace(scopeID) == "" {
		return entities.Sheet{}, false, domainerrors.ErrInvalidSheetInput
	}
	return uc.Sheets.GetSheetByScope(ctx, electionID, scopeID)
}

func (uc SheetQueryUseCase) ListSheets(ctx context.Context, filter ports.SheetFilter) ([]entities.Sheet, error) {
	filter.ElectionID = strings.TrimSpace(filter.ElectionID)
	if filter.ElectionID == "" {
		return nil, domainerrors.ErrInvalidSheetInput
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainerrors.ErrInvalidSheetInput
	}
	if filter.ScopeLevel != "" && !entities.ValidScopeLevel(filter.ScopeLevel) {
		return nil, domainerrors.ErrInvalidSheetInput
	}
	return uc.Sheets.ListSheets(ctx, filter)
}
