package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tally/contexts/results-collation/dashboard-service/application/queries"
	"tally/contexts/results-collation/dashboard-service/ports"
	httptransport "tally/contexts/results-collation/dashboard-service/transport/http"
)

type Handler struct {
	Dashboard queries.DashboardUseCase
	Logger    *slog.Logger
}

func (h Handler) SummaryHandler(ctx context.Context, electionID string) (httptransport.SummaryResponse, error) {
	view, err := h.Dashboard.Summary(ctx, electionID)
	if err != nil {
		return httptransport.SummaryResponse{}, err
	}
	return httptransport.SummaryResponse{
		ElectionID:        view.ElectionID,
		LeafScopes:        view.LeafScopes,
		ReportedScopes:    view.ReportedScopes,
		AggregableScopes:  view.AggregableScopes,
		CertifiedScopes:   view.CertifiedScopes,
		CompletionPercent: view.CompletionPercent,
		StatusCounts:      view.StatusCounts,
		RegisteredVoters:  view.RegisteredVoters,
		VotesCast:         view.VotesCast,
		ValidVotes:        view.ValidVotes,
		RejectedVotes:     view.RejectedVotes,
		HasNationalTally:  view.HasNationalTally,
		OpenIncidents:     view.OpenIncidents,
	}, nil
}

func (h Handler) RegionalBreakdownHandler(ctx context.Context, electionID string) (httptransport.RegionalBreakdownResponse, error) {
	rows, err := h.Dashboard.RegionalBreakdown(ctx, electionID)
	if err != nil {
		return httptransport.RegionalBreakdownResponse{}, err
	}
	items := make([]httptransport.RegionRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, httptransport.RegionRowResponse{
			RegionID:         row.RegionID,
			Name:             row.Name,
			ExpectedLeaves:   row.ExpectedLeaves,
			ReportedLeaves:   row.ReportedLeaves,
			AggregableLeaves: row.AggregableLeaves,
		})
	}
	return httptransport.RegionalBreakdownResponse{Items: items}, nil
}

func (h Handler) LeadingCandidatesHandler(ctx context.Context, electionID string) (httptransport.LeadingCandidatesResponse, error) {
	tallies, err := h.Dashboard.LeadingCandidates(ctx, electionID)
	if err != nil {
		return httptransport.LeadingCandidatesResponse{}, err
	}
	items := make([]httptransport.CandidateTallyResponse, 0, len(tallies))
	for _, tally := range tallies {
		items = append(items, httptransport.CandidateTallyResponse{
			PositionID:  tally.PositionID,
			CandidateID: tally.CandidateID,
			Votes:       tally.Votes,
		})
	}
	return httptransport.LeadingCandidatesResponse{Items: items}, nil
}

func (h Handler) LiveFeedHandler(ctx context.Context, electionID string, before time.Time, limit int) (httptransport.LiveFeedResponse, error) {
	entries, err := h.Dashboard.LiveFeed(ctx, electionID, before, limit)
	if err != nil {
		return httptransport.LiveFeedResponse{}, err
	}
	items := make([]httptransport.FeedEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toFeedEntryResponse(entry))
	}
	response := httptransport.LiveFeedResponse{Items: items}
	if len(entries) > 0 {
		response.NextBefore = entries[len(entries)-1].PerformedAt.UTC().Format(time.RFC3339Nano)
	}
	return response, nil
}

func toFeedEntryResponse(entry ports.FeedEntry) httptransport.FeedEntryResponse {
	return httptransport.FeedEntryResponse{
		EventID:     entry.EventID,
		ElectionID:  entry.ElectionID,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		ScopeID:     entry.ScopeID,
		ScopeLevel:  entry.ScopeLevel,
		SheetID:     entry.SheetID,
		Metadata:    entry.Metadata,
		PerformedAt: entry.PerformedAt,
	}
}
