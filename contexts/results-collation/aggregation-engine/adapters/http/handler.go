package httpadapter

import (
	"context"
	"log/slog"

	"tally/contexts/results-collation/aggregation-engine/application"
	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	httptransport "tally/contexts/results-collation/aggregation-engine/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// AggregateHandler computes the rollup on demand without persisting it.
func (h Handler) AggregateHandler(ctx context.Context, electionID string, nodeID string) (httptransport.AggregateResponse, error) {
	aggregate, err := h.Service.Aggregate(ctx, electionID, nodeID)
	if err != nil {
		return httptransport.AggregateResponse{}, err
	}
	return toAggregateResponse(aggregate), nil
}

// RecomputeHandler refreshes the node's derived sheet and returns the result.
func (h Handler) RecomputeHandler(ctx context.Context, electionID string, nodeID string) (httptransport.AggregateResponse, error) {
	aggregate, err := h.Service.Recompute(ctx, electionID, nodeID)
	if err != nil {
		return httptransport.AggregateResponse{}, err
	}
	return toAggregateResponse(aggregate), nil
}

func toAggregateResponse(aggregate entities.Aggregate) httptransport.AggregateResponse {
	entries := make([]httptransport.AggregateEntryResponse, 0, len(aggregate.Entries))
	for _, entry := range aggregate.Entries {
		entries = append(entries, httptransport.AggregateEntryResponse{
			PositionID:  entry.PositionID,
			CandidateID: entry.CandidateID,
			Votes:       entry.Votes,
		})
	}
	warnings := make([]httptransport.ConsistencyWarningResponse, 0, len(aggregate.Warnings))
	for _, warning := range aggregate.Warnings {
		warnings = append(warnings, httptransport.ConsistencyWarningResponse{
			ScopeID: warning.ScopeID,
			Reason:  warning.Reason,
		})
	}
	missing := aggregate.MissingScopes
	if missing == nil {
		missing = []string{}
	}
	return httptransport.AggregateResponse{
		ElectionID:       aggregate.ElectionID,
		NodeID:           aggregate.NodeID,
		NodeLevel:        aggregate.NodeLevel,
		Entries:          entries,
		RegisteredVoters: aggregate.Totals.RegisteredVoters,
		VotesCast:        aggregate.Totals.VotesCast,
		ValidVotes:       aggregate.Totals.ValidVotes,
		RejectedVotes:    aggregate.Totals.RejectedVotes,
		Partial:          aggregate.Partial,
		MissingScopes:    missing,
		Warnings:         warnings,
		ChildCount:       aggregate.ChildCount,
		Contributing:     aggregate.Contributing,
		ComputedAt:       aggregate.ComputedAt,
	}
}
