package commands

import (
	"context"
	"strings"
	"time"

	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

// newFeedEvent builds the live feed record a transition carries. The
// repository persists it atomically with the sheet save.
func (uc SheetUseCase) newFeedEvent(
	ctx context.Context,
	sheet entities.Sheet,
	action string,
	actorID string,
	performedAt time.Time,
	metadata map[string]any,
) (*ports.FeedEvent, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"status":  string(sheet.Status),
		"version": sheet.Version,
	}
	for key, value := range metadata {
		data[key] = value
	}
	return &ports.FeedEvent{
		EventID:     eventID,
		ElectionID:  sheet.ElectionID,
		ActorID:     strings.TrimSpace(actorID),
		Action:      action,
		ScopeID:     sheet.ScopeID,
		ScopeLevel:  sheet.ScopeLevel,
		SheetID:     sheet.SheetID,
		Metadata:    data,
		PerformedAt: performedAt,
	}, nil
}
