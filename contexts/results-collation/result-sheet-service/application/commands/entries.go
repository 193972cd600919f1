package commands

import (
	"context"
	"strings"

	application "tally/contexts/results-collation/result-sheet-service/application"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

// EntryInput is one submitted vote line.
type EntryInput struct {
	PositionID   string
	CandidateID  string
	Votes        int64
	VotesInWords string
}

type BulkAddEntriesCommand struct {
	Actor   ports.Actor
	SheetID string
	Entries []EntryInput
}

// BulkAddEntries upserts entries keyed by (position, candidate) on a draft
// sheet. Totals are never recomputed here: officers record line items and
// hand-tallied totals independently so divergence is flagged instead of
// silently overwritten.
func (uc SheetUseCase) BulkAddEntries(ctx context.Context, cmd BulkAddEntriesCommand) (entities.Sheet, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SheetID) == "" || len(cmd.Entries) == 0 {
		return entities.Sheet{}, domainerrors.ErrInvalidSheetInput
	}
	if !uc.allowed(cmd.Actor, ports.CapabilityRecord) {
		return entities.Sheet{}, domainerrors.ErrPermissionDenied
	}

	sheet, err := uc.Sheets.GetSheet(ctx, cmd.SheetID)
	if err != nil {
		return entities.Sheet{}, err
	}
	if err := uc.editableDraft(sheet); err != nil {
		return entities.Sheet{}, err
	}

	byKey := make(map[entities.EntryKey]int, len(sheet.Entries))
	for i, entry := range sheet.Entries {
		byKey[entry.Key()] = i
	}
	for _, input := range cmd.Entries {
		entry := entities.Entry{
			PositionID:   strings.TrimSpace(input.PositionID),
			CandidateID:  strings.TrimSpace(input.CandidateID),
			Votes:        input.Votes,
			VotesInWords: strings.TrimSpace(input.VotesInWords),
		}
		if entry.PositionID == "" || entry.CandidateID == "" || entry.Votes < 0 {
			return entities.Sheet{}, domainerrors.ErrInvalidSheetInput
		}
		entry.WordsMismatch = !entities.WordsMatch(entry.VotesInWords, entry.Votes)
		if index, exists := byKey[entry.Key()]; exists {
			sheet.Entries[index] = entry
		} else {
			byKey[entry.Key()] = len(sheet.Entries)
			sheet.Entries = append(sheet.Entries, entry)
		}
	}
	entities.SortEntries(sheet.Entries)

	expectedVersion := sheet.Version
	now := uc.now()
	sheet.Version = expectedVersion + 1
	sheet.UpdatedAt = now
	if err := uc.Sheets.SaveSheet(ctx, sheet, expectedVersion, nil); err != nil {
		return entities.Sheet{}, err
	}

	logger.Info("sheet entries recorded",
		"event", "collation_sheet_entries_recorded",
		"module", "results-collation/result-sheet-service",
		"layer", "application",
		"sheet_id", sheet.SheetID,
		"entry_count", len(sheet.Entries),
		"officer_id", strings.TrimSpace(cmd.Actor.OfficerID),
	)
	return sheet, nil
}

type UpdateTotalsCommand struct {
	Actor   ports.Actor
	SheetID string
	Totals  entities.Totals
}

// UpdateTotals records the hand-tallied totals on a draft sheet.
//
// Arithmetic violations (cast != valid + rejected, cast > registered,
// negatives) are hard failures: nothing is applied. Entry sums exceeding
// valid votes are soft: totals are stored, the sheet is flagged, and the
// returned TotalsInconsistentError carries Applied=true so callers treat it
// as a warning and may still submit.
func (uc SheetUseCase) UpdateTotals(ctx context.Context, cmd UpdateTotalsCommand) (entities.Sheet, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SheetID) == "" {
		return entities.Sheet{}, domainerrors.ErrInvalidSheetInput
	}
	if !uc.allowed(cmd.Actor, ports.CapabilityRecord) {
		return entities.Sheet{}, domainerrors.ErrPermissionDenied
	}

	sheet, err := uc.Sheets.GetSheet(ctx, cmd.SheetID)
	if err != nil {
		return entities.Sheet{}, err
	}
	if err := uc.editableDraft(sheet); err != nil {
		return entities.Sheet{}, err
	}

	if err := cmd.Totals.Validate(); err != nil {
		logger.Warn("sheet totals rejected",
			"event", "collation_sheet_totals_rejected",
			"module", "results-collation/result-sheet-service",
			"layer", "application",
			"sheet_id", sheet.SheetID,
			"error", err.Error(),
		)
		return entities.Sheet{}, err
	}

	flagged := !sheet.EntriesConsistentWith(cmd.Totals)
	expectedVersion := sheet.Version
	now := uc.now()
	sheet.Totals = cmd.Totals
	sheet.TotalsSet = true
	sheet.TotalsFlagged = flagged
	sheet.Version = expectedVersion + 1
	sheet.UpdatedAt = now
	if err := uc.Sheets.SaveSheet(ctx, sheet, expectedVersion, nil); err != nil {
		return entities.Sheet{}, err
	}

	logger.Info("sheet totals recorded",
		"event", "collation_sheet_totals_recorded",
		"module", "results-collation/result-sheet-service",
		"layer", "application",
		"sheet_id", sheet.SheetID,
		"votes_cast", cmd.Totals.VotesCast,
		"flagged", flagged,
		"officer_id", strings.TrimSpace(cmd.Actor.OfficerID),
	)
	if flagged {
		return sheet, &domainerrors.TotalsInconsistentError{
			Reason:  "entry votes exceed hand-tallied valid votes",
			Applied: true,
		}
	}
	return sheet, nil
}

// editableDraft gates hand edits: draft-only, never on derived rollups,
// with certified called out as terminal.
func (uc SheetUseCase) editableDraft(sheet entities.Sheet) error {
	if sheet.Derived {
		return domainerrors.ErrDerivedSheetImmutable
	}
	switch sheet.Status {
	case entities.StatusDraft:
		return nil
	case entities.StatusCertified:
		return domainerrors.ErrTerminalState
	default:
		return domainerrors.ErrInvalidState
	}
}
