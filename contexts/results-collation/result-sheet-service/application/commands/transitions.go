package commands

import (
	"context"
	"strings"
	"time"

	application "tally/contexts/results-collation/result-sheet-service/application"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

type SubmitSheetCommand struct {
	Actor   ports.Actor
	SheetID string
}

type ReviewSheetCommand struct {
	Actor   ports.Actor
	SheetID string
	Notes   string
}

type RejectSheetCommand struct {
	Actor   ports.Actor
	SheetID string
	Reason  string
}

// Submit moves a draft sheet into review. Preconditions: at least one
// entry and totals recorded. A totals inconsistency does not block
// submission; the flag travels in the feed event instead.
func (uc SheetUseCase) Submit(ctx context.Context, cmd SubmitSheetCommand) (entities.Sheet, error) {
	return uc.runTransition(ctx, cmd.Actor, ports.CapabilitySubmit, cmd.SheetID, entities.ActionSubmit,
		func(sheet *entities.Sheet, now time.Time) (map[string]any, error) {
			if len(sheet.Entries) == 0 || !sheet.TotalsSet {
				return nil, domainerrors.ErrSubmitPreconditions
			}
			// The last rejection reason only rides on the draft; history
			// stays in Rejections.
			sheet.RejectionReason = ""
			sheet.SubmittedBy = strings.TrimSpace(cmd.Actor.OfficerID)
			sheet.SubmittedAt = &now
			metadata := map[string]any{}
			if sheet.TotalsFlagged {
				metadata["totals_flagged"] = true
			}
			return metadata, nil
		})
}

// Verify records the second-officer check. The engine records who verified;
// keeping verifier and submitter distinct is the caller's responsibility
// through the capability set it grants.
func (uc SheetUseCase) Verify(ctx context.Context, cmd ReviewSheetCommand) (entities.Sheet, error) {
	return uc.runTransition(ctx, cmd.Actor, ports.CapabilityVerify, cmd.SheetID, entities.ActionVerify,
		func(sheet *entities.Sheet, now time.Time) (map[string]any, error) {
			sheet.VerifiedBy = strings.TrimSpace(cmd.Actor.OfficerID)
			sheet.VerifiedAt = &now
			sheet.VerificationNotes = strings.TrimSpace(cmd.Notes)
			return nil, nil
		})
}

func (uc SheetUseCase) Approve(ctx context.Context, cmd ReviewSheetCommand) (entities.Sheet, error) {
	return uc.runTransition(ctx, cmd.Actor, ports.CapabilityApprove, cmd.SheetID, entities.ActionApprove,
		func(sheet *entities.Sheet, now time.Time) (map[string]any, error) {
			sheet.ApprovedBy = strings.TrimSpace(cmd.Actor.OfficerID)
			sheet.ApprovedAt = &now
			sheet.ApprovalNotes = strings.TrimSpace(cmd.Notes)
			return nil, nil
		})
}

// Certify is terminal: no further transition ever succeeds on a certified
// sheet.
func (uc SheetUseCase) Certify(ctx context.Context, cmd ReviewSheetCommand) (entities.Sheet, error) {
	return uc.runTransition(ctx, cmd.Actor, ports.CapabilityCertify, cmd.SheetID, entities.ActionCertify,
		func(sheet *entities.Sheet, now time.Time) (map[string]any, error) {
			sheet.CertifiedBy = strings.TrimSpace(cmd.Actor.OfficerID)
			sheet.CertifiedAt = &now
			sheet.CertificationNotes = strings.TrimSpace(cmd.Notes)
			return nil, nil
		})
}

// Reject returns a submitted or verified sheet to draft, preserving all
// entries and totals, with the mandatory reason appended to history.
func (uc SheetUseCase) Reject(ctx context.Context, cmd RejectSheetCommand) (entities.Sheet, error) {
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return entities.Sheet{}, domainerrors.ErrRejectionReasonRequired
	}
	return uc.runTransition(ctx, cmd.Actor, ports.CapabilityReject, cmd.SheetID, entities.ActionReject,
		func(sheet *entities.Sheet, now time.Time) (map[string]any, error) {
			fromStatus := sheet.Status
			sheet.RejectionReason = reason
			sheet.RejectionCount++
			sheet.Rejections = append(sheet.Rejections, entities.RejectionRecord{
				Reason:     reason,
				RejectedBy: strings.TrimSpace(cmd.Actor.OfficerID),
				FromStatus: fromStatus,
				RejectedAt: now,
			})
			return map[string]any{
				"reason":      reason,
				"from_status": string(fromStatus),
			}, nil
		})
}

// runTransition applies the transition table under the sheet's optimistic
// version: status change, timestamps and the feed event are one atomic
// save, or none of it happens.
func (uc SheetUseCase) runTransition(
	ctx context.Context,
	actor ports.Actor,
	capability string,
	sheetID string,
	action entities.TransitionAction,
	apply func(*entities.Sheet, time.Time) (map[string]any, error),
) (entities.Sheet, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(sheetID) == "" {
		return entities.Sheet{}, domainerrors.ErrInvalidSheetInput
	}
	if !uc.allowed(actor, capability) {
		return entities.Sheet{}, domainerrors.ErrPermissionDenied
	}

	sheet, err := uc.Sheets.GetSheet(ctx, sheetID)
	if err != nil {
		return entities.Sheet{}, err
	}
	if sheet.Status == entities.StatusCertified {
		return entities.Sheet{}, domainerrors.ErrTerminalState
	}
	next, legal := entities.NextStatus(sheet.Status, action)
	if !legal {
		return entities.Sheet{}, &domainerrors.InvalidTransitionError{
			Action:  string(action),
			Current: string(sheet.Status),
		}
	}

	now := uc.now()
	expectedVersion := sheet.Version
	// apply runs against the pre-transition status so callbacks like
	// Reject can record where the sheet came from.
	metadata, err := apply(&sheet, now)
	if err != nil {
		return entities.Sheet{}, err
	}
	sheet.Status = next
	sheet.Version = expectedVersion + 1
	sheet.UpdatedAt = now

	event, err := uc.newFeedEvent(ctx, sheet, "sheet_"+string(next), actor.OfficerID, now, metadata)
	if err != nil {
		return entities.Sheet{}, err
	}
	if action == entities.ActionReject {
		event.Action = "sheet_rejected"
	}
	if err := uc.Sheets.SaveSheet(ctx, sheet, expectedVersion, event); err != nil {
		return entities.Sheet{}, err
	}

	logger.Info("sheet transition applied",
		"event", "collation_sheet_transition_applied",
		"module", "results-collation/result-sheet-service",
		"layer", "application",
		"sheet_id", sheet.SheetID,
		"action", string(action),
		"status", string(sheet.Status),
		"officer_id", strings.TrimSpace(actor.OfficerID),
	)
	return sheet, nil
}
