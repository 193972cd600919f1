package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	domainerrors "tally/contexts/results-collation/aggregation-engine/domain/errors"
	"tally/contexts/results-collation/aggregation-engine/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the shared collation tables (geo_nodes, result_sheets,
// result_sheet_entries) and writes derived sheets back with the same
// version column the sheet service uses for its compare-and-swap.
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

func (r *Repository) GetNode(ctx context.Context, electionID string, nodeID string) (ports.GeoNode, error) {
	var row geoNodeModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("id = ?", strings.TrimSpace(nodeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GeoNode{}, domainerrors.ErrNodeNotFound
		}
		return ports.GeoNode{}, r.logError("collation_agg_get_node_failed", err, "node_id", strings.TrimSpace(nodeID))
	}
	return row.toPort(), nil
}

func (r *Repository) Children(ctx context.Context, electionID string, nodeID string) ([]ports.GeoNode, error) {
	var rows []geoNodeModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("parent_id = ?", strings.TrimSpace(nodeID)).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("collation_agg_list_children_failed", err, "node_id", strings.TrimSpace(nodeID))
	}
	children := make([]ports.GeoNode, 0, len(rows))
	for _, row := range rows {
		children = append(children, row.toPort())
	}
	return children, nil
}

func (r *Repository) Ancestors(ctx context.Context, electionID string, nodeID string) ([]ports.GeoNode, error) {
	node, err := r.GetNode(ctx, electionID, nodeID)
	if err != nil {
		return nil, err
	}
	var chain []ports.GeoNode
	for node.ParentID != "" {
		parent, err := r.GetNode(ctx, electionID, node.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parent)
		node = parent
	}
	return chain, nil
}

func (r *Repository) GetSheetByScope(ctx context.Context, electionID string, scopeID string) (entities.ChildSheet, bool, error) {
	var row sheetRowModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("scope_id = ?", strings.TrimSpace(scopeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ChildSheet{}, false, nil
		}
		return entities.ChildSheet{}, false, r.logError("collation_agg_get_sheet_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"scope_id", strings.TrimSpace(scopeID),
		)
	}
	var entryRows []entryRowModel
	err = r.db.WithContext(ctx).
		Where("sheet_id = ?", row.ID).
		Order("position_id ASC, candidate_id ASC").
		Find(&entryRows).
		Error
	if err != nil {
		return entities.ChildSheet{}, false, r.logError("collation_agg_load_entries_failed", err, "sheet_id", row.ID)
	}
	entries := make([]entities.Entry, 0, len(entryRows))
	for _, entryRow := range entryRows {
		entries = append(entries, entities.Entry{
			PositionID:  entryRow.PositionID,
			CandidateID: entryRow.CandidateID,
			Votes:       entryRow.Votes,
		})
	}
	return entities.ChildSheet{
		SheetID:    row.ID,
		ScopeID:    row.ScopeID,
		ScopeLevel: row.ScopeLevel,
		Status:     row.Status,
		Derived:    row.Derived,
		Entries:    entries,
		Totals: entities.Totals{
			RegisteredVoters: row.RegisteredVoters,
			VotesCast:        row.VotesCast,
			ValidVotes:       row.ValidVotes,
			RejectedVotes:    row.RejectedVotes,
		},
		TotalsSet: row.TotalsSet,
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

// UpsertDerivedSheet writes the aggregate as the node's derived sheet.
// A derived sheet that has already entered review is frozen: the write is
// skipped without error and the next rejection reopens it.
func (r *Repository) UpsertDerivedSheet(ctx context.Context, aggregate entities.Aggregate) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sheetRowModel
		err := tx.
			Where("election_id = ?", aggregate.ElectionID).
			Where("scope_id = ?", aggregate.NodeID).
			First(&row).
			Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return r.insertDerivedSheet(tx, aggregate, now)
		case err != nil:
			return r.logError("collation_agg_upsert_read_failed", err, "node_id", aggregate.NodeID)
		}
		if row.Status != "draft" {
			return nil
		}
		update := tx.Model(&sheetRowModel{}).
			Where("id = ?", row.ID).
			Where("version = ?", row.Version).
			Updates(map[string]any{
				"registered_voters": aggregate.Totals.RegisteredVoters,
				"votes_cast":        aggregate.Totals.VotesCast,
				"valid_votes":       aggregate.Totals.ValidVotes,
				"rejected_votes":    aggregate.Totals.RejectedVotes,
				"totals_set":        true,
				"version":           row.Version + 1,
				"updated_at":        now,
			})
		if update.Error != nil {
			return r.logError("collation_agg_upsert_failed", update.Error, "sheet_id", row.ID)
		}
		if update.RowsAffected == 0 {
			return domainerrors.ErrConcurrentModification
		}
		return r.replaceEntries(tx, row.ID, aggregate.Entries)
	})
}

func (r *Repository) insertDerivedSheet(tx *gorm.DB, aggregate entities.Aggregate, now time.Time) error {
	row := sheetRowModel{
		ID:               uuid.NewString(),
		ElectionID:       aggregate.ElectionID,
		ScopeID:          aggregate.NodeID,
		ScopeLevel:       aggregate.NodeLevel,
		Derived:          true,
		Status:           "draft",
		RegisteredVoters: aggregate.Totals.RegisteredVoters,
		VotesCast:        aggregate.Totals.VotesCast,
		ValidVotes:       aggregate.Totals.ValidVotes,
		RejectedVotes:    aggregate.Totals.RejectedVotes,
		TotalsSet:        true,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.Create(&row).Error; err != nil {
		// A concurrent recompute may have inserted the row first.
		return domainerrors.ErrConcurrentModification
	}
	return r.replaceEntries(tx, row.ID, aggregate.Entries)
}

func (r *Repository) replaceEntries(tx *gorm.DB, sheetID string, entries []entities.Entry) error {
	if err := tx.Where("sheet_id = ?", sheetID).Delete(&entryRowModel{}).Error; err != nil {
		return r.logError("collation_agg_replace_entries_failed", err, "sheet_id", sheetID)
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([]entryRowModel, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryRowModel{
			SheetID:     sheetID,
			PositionID:  entry.PositionID,
			CandidateID: entry.CandidateID,
			Votes:       entry.Votes,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return r.logError("collation_agg_insert_entries_failed", err, "sheet_id", sheetID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "results-collation/aggregation-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("aggregation repository operation failed", fields...)
	return err
}

type geoNodeModel struct {
	ID               string  `gorm:"column:id;primaryKey"`
	ElectionID       string  `gorm:"column:election_id"`
	Name             string  `gorm:"column:name"`
	Level            string  `gorm:"column:level"`
	ParentID         *string `gorm:"column:parent_id"`
	RegisteredVoters int64   `gorm:"column:registered_voters"`
}

func (geoNodeModel) TableName() string {
	return "geo_nodes"
}

func (m geoNodeModel) toPort() ports.GeoNode {
	parentID := ""
	if m.ParentID != nil {
		parentID = *m.ParentID
	}
	return ports.GeoNode{
		NodeID:           m.ID,
		Name:             m.Name,
		Level:            m.Level,
		ParentID:         parentID,
		RegisteredVoters: m.RegisteredVoters,
	}
}

type sheetRowModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	ElectionID       string    `gorm:"column:election_id"`
	ScopeID          string    `gorm:"column:scope_id"`
	ScopeLevel       string    `gorm:"column:scope_level"`
	Derived          bool      `gorm:"column:derived"`
	Status           string    `gorm:"column:status"`
	RegisteredVoters int64     `gorm:"column:registered_voters"`
	VotesCast        int64     `gorm:"column:votes_cast"`
	ValidVotes       int64     `gorm:"column:valid_votes"`
	RejectedVotes    int64     `gorm:"column:rejected_votes"`
	TotalsSet        bool      `gorm:"column:totals_set"`
	Version          int64     `gorm:"column:version"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (sheetRowModel) TableName() string {
	return "result_sheets"
}

type entryRowModel struct {
	SheetID     string `gorm:"column:sheet_id;primaryKey"`
	PositionID  string `gorm:"column:position_id;primaryKey"`
	CandidateID string `gorm:"column:candidate_id;primaryKey"`
	Votes       int64  `gorm:"column:votes"`
}

func (entryRowModel) TableName() string {
	return "result_sheet_entries"
}

var (
	_ ports.Hierarchy          = (*Repository)(nil)
	_ ports.SheetSource        = (*Repository)(nil)
	_ ports.DerivedSheetWriter = (*Repository)(nil)
)
