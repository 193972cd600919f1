package httpadapter

import (
	"context"
	"errors"
	"log/slog"

	"tally/contexts/results-collation/result-sheet-service/application/commands"
	"tally/contexts/results-collation/result-sheet-service/application/queries"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"
	httptransport "tally/contexts/results-collation/result-sheet-service/transport/http"
)

type Handler struct {
	Sheets  commands.SheetUseCase
	Queries queries.SheetQueryUseCase
	Logger  *slog.Logger
}

func (h Handler) CreateSheetHandler(ctx context.Context, actor ports.Actor, req httptransport.CreateSheetRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.CreateSheet(ctx, commands.CreateSheetCommand{
		Actor:      actor,
		ElectionID: req.ElectionID,
		ScopeID:    req.ScopeID,
		ScopeLevel: req.ScopeLevel,
	})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) BulkEntriesHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.BulkEntriesRequest) (httptransport.SheetResponse, error) {
	entries := make([]commands.EntryInput, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, commands.EntryInput{
			PositionID:   entry.PositionID,
			CandidateID:  entry.CandidateID,
			Votes:        entry.Votes,
			VotesInWords: entry.VotesInWords,
		})
	}
	sheet, err := h.Sheets.BulkAddEntries(ctx, commands.BulkAddEntriesCommand{
		Actor:   actor,
		SheetID: sheetID,
		Entries: entries,
	})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

// UpdateTotalsHandler surfaces the soft totals inconsistency as a warning
// on a successful response; only the hard variant propagates as an error.
func (h Handler) UpdateTotalsHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.TotalsRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.UpdateTotals(ctx, commands.UpdateTotalsCommand{
		Actor:   actor,
		SheetID: sheetID,
		Totals: entities.Totals{
			RegisteredVoters: req.RegisteredVoters,
			VotesCast:        req.VotesCast,
			ValidVotes:       req.ValidVotes,
			RejectedVotes:    req.RejectedVotes,
		},
	})
	if err != nil {
		var inconsistent *domainerrors.TotalsInconsistentError
		if errors.As(err, &inconsistent) && inconsistent.Applied {
			return toSheetResponse(sheet, inconsistent.Error()), nil
		}
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) SubmitHandler(ctx context.Context, actor ports.Actor, sheetID string) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.Submit(ctx, commands.SubmitSheetCommand{Actor: actor, SheetID: sheetID})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	warning := ""
	if sheet.TotalsFlagged {
		warning = "entry votes exceed hand-tallied valid votes"
	}
	return toSheetResponse(sheet, warning), nil
}

func (h Handler) VerifyHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.ReviewRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.Verify(ctx, commands.ReviewSheetCommand{Actor: actor, SheetID: sheetID, Notes: req.Notes})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) ApproveHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.ReviewRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.Approve(ctx, commands.ReviewSheetCommand{Actor: actor, SheetID: sheetID, Notes: req.Notes})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) CertifyHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.ReviewRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.Certify(ctx, commands.ReviewSheetCommand{Actor: actor, SheetID: sheetID, Notes: req.Notes})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) RejectHandler(ctx context.Context, actor ports.Actor, sheetID string, req httptransport.RejectRequest) (httptransport.SheetResponse, error) {
	sheet, err := h.Sheets.Reject(ctx, commands.RejectSheetCommand{Actor: actor, SheetID: sheetID, Reason: req.Reason})
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) GetSheetHandler(ctx context.Context, sheetID string) (httptransport.SheetResponse, error) {
	sheet, err := h.Queries.GetSheet(ctx, sheetID)
	if err != nil {
		return httptransport.SheetResponse{}, err
	}
	return toSheetResponse(sheet, ""), nil
}

func (h Handler) ListSheetsHandler(ctx context.Context, filter ports.SheetFilter) (httptransport.SheetListResponse, error) {
	sheets, err := h.Queries.ListSheets(ctx, filter)
	if err != nil {
		return httptransport.SheetListResponse{}, err
	}
	items := make([]httptransport.SheetResponse, 0, len(sheets))
	for _, sheet := range sheets {
		items = append(items, toSheetResponse(sheet, ""))
	}
	return httptransport.SheetListResponse{Items: items}, nil
}

func toSheetResponse(sheet entities.Sheet, warning string) httptransport.SheetResponse {
	entries := make([]httptransport.EntryResponse, 0, len(sheet.Entries))
	for _, entry := range sheet.Entries {
		entries = append(entries, httptransport.EntryResponse{
			PositionID:    entry.PositionID,
			CandidateID:   entry.CandidateID,
			Votes:         entry.Votes,
			VotesInWords:  entry.VotesInWords,
			WordsMismatch: entry.WordsMismatch,
		})
	}
	rejections := make([]httptransport.RejectionResponse, 0, len(sheet.Rejections))
	for _, rejection := range sheet.Rejections {
		rejections = append(rejections, httptransport.RejectionResponse{
			Reason:     rejection.Reason,
			RejectedBy: rejection.RejectedBy,
			FromStatus: string(rejection.FromStatus),
			RejectedAt: rejection.RejectedAt,
		})
	}
	return httptransport.SheetResponse{
		SheetID:          sheet.SheetID,
		ElectionID:       sheet.ElectionID,
		ScopeID:          sheet.ScopeID,
		ScopeLevel:       sheet.ScopeLevel,
		Derived:          sheet.Derived,
		Status:           string(sheet.Status),
		Entries:          entries,
		RegisteredVoters: sheet.Totals.RegisteredVoters,
		VotesCast:        sheet.Totals.VotesCast,
		ValidVotes:       sheet.Totals.ValidVotes,
		RejectedVotes:    sheet.Totals.RejectedVotes,
		TotalsSet:        sheet.TotalsSet,
		TotalsFlagged:    sheet.TotalsFlagged,
		RejectionReason:  sheet.RejectionReason,
		RejectionCount:   sheet.RejectionCount,
		Rejections:       rejections,
		Version:          sheet.Version,
		CreatedAt:        sheet.CreatedAt,
		UpdatedAt:        sheet.UpdatedAt,
		Warning:          warning,
	}
}
