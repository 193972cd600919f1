package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "tally/contexts/results-collation/dashboard-service/domain/errors"
	"tally/contexts/results-collation/dashboard-service/ports"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

type DashboardUseCase struct {
	Repo   ports.DashboardRepository
	Logger *slog.Logger
}

// SummaryView adds the derived completion percentage to the raw summary.
type SummaryView struct {
	ports.Summary
	CompletionPercent float64
}

func (u DashboardUseCase) Summary(ctx context.Context, electionID string) (SummaryView, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return SummaryView{}, domainerrors.ErrElectionRequired
	}
	summary, err := u.Repo.Summary(ctx, electionID)
	if err != nil {
		return SummaryView{}, err
	}
	view := SummaryView{Summary: summary}
	if summary.LeafScopes > 0 {
		view.CompletionPercent = float64(summary.AggregableScopes) / float64(summary.LeafScopes) * 100
	}
	return view, nil
}

func (u DashboardUseCase) RegionalBreakdown(ctx context.Context, electionID string) ([]ports.RegionRow, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domainerrors.ErrElectionRequired
	}
	return u.Repo.RegionalBreakdown(ctx, electionID)
}

func (u DashboardUseCase) LeadingCandidates(ctx context.Context, electionID string) ([]ports.CandidateTally, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domainerrors.ErrElectionRequired
	}
	return u.Repo.LeadingCandidates(ctx, electionID)
}

// LiveFeed pages through the feed newest first with a timestamp cursor.
// The limit is clamped to 1..100; zero and negatives fall back to the
// default page size.
func (u DashboardUseCase) LiveFeed(ctx context.Context, electionID string, before time.Time, limit int) ([]ports.FeedEntry, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domainerrors.ErrElectionRequired
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return u.Repo.ListFeed(ctx, electionID, before, limit)
}
