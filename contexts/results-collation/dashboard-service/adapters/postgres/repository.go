package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"tally/contexts/results-collation/dashboard-service/ports"

	"gorm.io/gorm"
)

// Repository projects dashboard views over the shared collation tables.
// Every method is a read; the dashboard owns no rows.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Summary(ctx context.Context, electionID string) (ports.Summary, error) {
	summary := ports.Summary{
		ElectionID:   electionID,
		StatusCounts: make(map[string]int64),
	}

	err := r.db.WithContext(ctx).Table("geo_nodes").
		Where("election_id = ?", electionID).
		Where("level = ?", "station").
		Count(&summary.LeafScopes).
		Error
	if err != nil {
		return ports.Summary{}, r.logError("collation_dash_leaf_count_failed", err, "election_id", electionID)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err = r.db.WithContext(ctx).Table("result_sheets").
		Select("status, COUNT(*) AS count").
		Where("election_id = ?", electionID).
		Where("derived = ?", false).
		Group("status").
		Find(&counts).
		Error
	if err != nil {
		return ports.Summary{}, r.logError("collation_dash_status_counts_failed", err, "election_id", electionID)
	}
	for _, row := range counts {
		summary.StatusCounts[row.Status] = row.Count
		if row.Status != "draft" {
			summary.ReportedScopes += row.Count
		}
		if row.Status == "approved" || row.Status == "certified" {
			summary.AggregableScopes += row.Count
		}
		if row.Status == "certified" {
			summary.CertifiedScopes = row.Count
		}
	}

	var national struct {
		RegisteredVoters int64
		VotesCast        int64
		ValidVotes       int64
		RejectedVotes    int64
	}
	err = r.db.WithContext(ctx).Table("result_sheets").
		Select("registered_voters, votes_cast, valid_votes, rejected_votes").
		Where("election_id = ?", electionID).
		Where("scope_level = ?", "national").
		Take(&national).
		Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No national rollup yet; the summary still reports progress.
	case err != nil:
		return ports.Summary{}, r.logError("collation_dash_national_failed", err, "election_id", electionID)
	default:
		summary.RegisteredVoters = national.RegisteredVoters
		summary.VotesCast = national.VotesCast
		summary.ValidVotes = national.ValidVotes
		summary.RejectedVotes = national.RejectedVotes
		summary.HasNationalTally = true
	}

	err = r.db.WithContext(ctx).Table("incidents").
		Where("election_id = ?", electionID).
		Where("status = ?", "open").
		Count(&summary.OpenIncidents).
		Error
	if err != nil {
		return ports.Summary{}, r.logError("collation_dash_incident_count_failed", err, "election_id", electionID)
	}
	return summary, nil
}

// RegionalBreakdown resolves each leaf's region ancestor with a recursive
// walk up the tree, then folds leaf sheet statuses per region in memory.
func (r *Repository) RegionalBreakdown(ctx context.Context, electionID string) ([]ports.RegionRow, error) {
	type regionNode struct {
		ID   string
		Name string
	}
	var regions []regionNode
	err := r.db.WithContext(ctx).Table("geo_nodes").
		Select("id, name").
		Where("election_id = ?", electionID).
		Where("level = ?", "region").
		Order("id ASC").
		Find(&regions).
		Error
	if err != nil {
		return nil, r.logError("collation_dash_regions_failed", err, "election_id", electionID)
	}

	type lineageRow struct {
		RegionID string
		LeafID   string
	}
	var lineage []lineageRow
	err = r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE lineage AS (
			SELECT id AS leaf_id, id, parent_id, level
			FROM geo_nodes
			WHERE election_id = ? AND level = 'station'
			UNION ALL
			SELECT l.leaf_id, g.id, g.parent_id, g.level
			FROM geo_nodes g
			JOIN lineage l ON g.id = l.parent_id
			WHERE g.election_id = ?
		)
		SELECT id AS region_id, leaf_id FROM lineage WHERE level = 'region'
	`, electionID, electionID).Scan(&lineage).Error
	if err != nil {
		return nil, r.logError("collation_dash_lineage_failed", err, "election_id", electionID)
	}

	type leafSheet struct {
		ScopeID string
		Status  string
	}
	var sheets []leafSheet
	err = r.db.WithContext(ctx).Table("result_sheets").
		Select("scope_id, status").
		Where("election_id = ?", electionID).
		Where("derived = ?", false).
		Find(&sheets).
		Error
	if err != nil {
		return nil, r.logError("collation_dash_leaf_sheets_failed", err, "election_id", electionID)
	}
	statusByLeaf := make(map[string]string, len(sheets))
	for _, sheet := range sheets {
		statusByLeaf[sheet.ScopeID] = sheet.Status
	}

	rows := make(map[string]*ports.RegionRow, len(regions))
	for _, region := range regions {
		rows[region.ID] = &ports.RegionRow{RegionID: region.ID, Name: region.Name}
	}
	for _, pair := range lineage {
		row, ok := rows[pair.RegionID]
		if !ok {
			continue
		}
		row.ExpectedLeaves++
		status, hasSheet := statusByLeaf[pair.LeafID]
		if !hasSheet {
			continue
		}
		if status != "draft" {
			row.ReportedLeaves++
		}
		if status == "approved" || status == "certified" {
			row.AggregableLeaves++
		}
	}
	breakdown := make([]ports.RegionRow, 0, len(rows))
	for _, region := range regions {
		breakdown = append(breakdown, *rows[region.ID])
	}
	return breakdown, nil
}

func (r *Repository) LeadingCandidates(ctx context.Context, electionID string) ([]ports.CandidateTally, error) {
	type entryRow struct {
		PositionID  string
		CandidateID string
		Votes       int64
	}
	var rows []entryRow
	err := r.db.WithContext(ctx).Table("result_sheet_entries").
		Select("result_sheet_entries.position_id, result_sheet_entries.candidate_id, result_sheet_entries.votes").
		Joins("JOIN result_sheets ON result_sheets.id = result_sheet_entries.sheet_id").
		Where("result_sheets.election_id = ?", electionID).
		Where("result_sheets.scope_level = ?", "national").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("collation_dash_leading_failed", err, "election_id", electionID)
	}
	tallies := make([]ports.CandidateTally, 0, len(rows))
	for _, row := range rows {
		tallies = append(tallies, ports.CandidateTally{
			PositionID:  row.PositionID,
			CandidateID: row.CandidateID,
			Votes:       row.Votes,
		})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].PositionID != tallies[j].PositionID {
			return tallies[i].PositionID < tallies[j].PositionID
		}
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].CandidateID < tallies[j].CandidateID
	})
	return tallies, nil
}

func (r *Repository) ListFeed(ctx context.Context, electionID string, before time.Time, limit int) ([]ports.FeedEntry, error) {
	tx := r.db.WithContext(ctx).Table("live_feed_events").
		Where("election_id = ?", electionID)
	if !before.IsZero() {
		tx = tx.Where("performed_at < ?", before)
	}
	var rows []feedEventModel
	err := tx.Order("performed_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("collation_dash_feed_failed", err, "election_id", electionID)
	}
	entries := make([]ports.FeedEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toPort()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "results-collation/dashboard-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("dashboard repository operation failed", fields...)
	return err
}

type feedEventModel struct {
	ID          string    `gorm:"column:id"`
	ElectionID  string    `gorm:"column:election_id"`
	ActorID     string    `gorm:"column:actor_id"`
	Action      string    `gorm:"column:action"`
	ScopeID     string    `gorm:"column:scope_id"`
	ScopeLevel  string    `gorm:"column:scope_level"`
	SheetID     *string   `gorm:"column:sheet_id"`
	Metadata    []byte    `gorm:"column:metadata"`
	PerformedAt time.Time `gorm:"column:performed_at"`
}

func (m feedEventModel) toPort() (ports.FeedEntry, error) {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return ports.FeedEntry{}, err
		}
	}
	sheetID := ""
	if m.SheetID != nil {
		sheetID = *m.SheetID
	}
	return ports.FeedEntry{
		EventID:     m.ID,
		ElectionID:  m.ElectionID,
		ActorID:     m.ActorID,
		Action:      m.Action,
		ScopeID:     m.ScopeID,
		ScopeLevel:  m.ScopeLevel,
		SheetID:     sheetID,
		Metadata:    metadata,
		PerformedAt: m.PerformedAt,
	}, nil
}

var _ ports.DashboardRepository = (*Repository)(nil)
