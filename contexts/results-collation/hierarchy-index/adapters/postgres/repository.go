package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	"tally/contexts/results-collation/hierarchy-index/ports"

	"gorm.io/gorm"
)

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

// LoadNodes reads the full tree for an election in one pass. The result is
// handed to the in-memory index; this adapter never serves point lookups.
func (r *Repository) LoadNodes(ctx context.Context, electionID string) ([]entities.Node, error) {
	var rows []geoNodeModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		r.logger.Error("hierarchy load failed",
			"event", "hierarchy_repo_load_nodes_failed",
			"module", "results-collation/hierarchy-index",
			"layer", "adapter",
			"election_id", strings.TrimSpace(electionID),
			"error", err.Error(),
		)
		return nil, err
	}

	nodes := make([]entities.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, entities.Node{
			NodeID:           row.ID,
			Name:             row.Name,
			Level:            entities.Level(row.Level),
			ParentID:         derefString(row.ParentID),
			RegisteredVoters: row.RegisteredVoters,
		})
	}
	return nodes, nil
}

type geoNodeModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	ElectionID       string    `gorm:"column:election_id"`
	Name             string    `gorm:"column:name"`
	Level            string    `gorm:"column:level"`
	ParentID         *string   `gorm:"column:parent_id"`
	RegisteredVoters int64     `gorm:"column:registered_voters"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (geoNodeModel) TableName() string {
	return "geo_nodes"
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

var _ ports.NodeLoader = (*Repository)(nil)
