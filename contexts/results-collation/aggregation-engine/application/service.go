package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	domainerrors "tally/contexts/results-collation/aggregation-engine/domain/errors"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

type Service struct {
	Hierarchy ports.Hierarchy
	Sheets    ports.SheetSource
	Writer    ports.DerivedSheetWriter
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Aggregate computes the rollup for one non-leaf node from its immediate
// children. It never reads deeper than one level: grandchildren are already
// folded into each child's own derived sheet.
func (s Service) Aggregate(ctx context.Context, electionID string, nodeID string) (entities.Aggregate, error) {
	logger := ResolveLogger(s.Logger)
	electionID = strings.TrimSpace(electionID)
	nodeID = strings.TrimSpace(nodeID)
	if electionID == "" {
		return entities.Aggregate{}, domainerrors.ErrElectionRequired
	}
	node, err := s.Hierarchy.GetNode(ctx, electionID, nodeID)
	if err != nil {
		return entities.Aggregate{}, err
	}
	if node.IsLeaf() {
		return entities.Aggregate{}, domainerrors.ErrNotAggregable
	}
	children, err := s.Hierarchy.Children(ctx, electionID, nodeID)
	if err != nil {
		return entities.Aggregate{}, err
	}
	if len(children) == 0 {
		return entities.Aggregate{}, domainerrors.ErrNotAggregable
	}

	var contributing []entities.ChildSheet
	var missing []string
	for _, child := range children {
		sheet, found, err := s.Sheets.GetSheetByScope(ctx, electionID, child.NodeID)
		if err != nil {
			return entities.Aggregate{}, err
		}
		if !found || !entities.Aggregable(sheet.Status) {
			missing = append(missing, child.NodeID)
			continue
		}
		contributing = append(contributing, sheet)
	}

	aggregate := entities.Combine(electionID, nodeID, node.Level, contributing, missing, s.Clock.Now().UTC())
	logger.Info("aggregate computed",
		"event", "collation_aggregate_computed",
		"module", "results-collation/aggregation-engine",
		"layer", "application",
		"election_id", electionID,
		"node_id", nodeID,
		"node_level", node.Level,
		"contributing", aggregate.Contributing,
		"missing", len(aggregate.MissingScopes),
		"partial", aggregate.Partial,
		"warnings", len(aggregate.Warnings),
	)
	return aggregate, nil
}

// Recompute refreshes the node's derived sheet from current child state.
// A concurrent save of the same derived sheet gets exactly one retry with
// a fresh computation; a second conflict propagates to the caller.
func (s Service) Recompute(ctx context.Context, electionID string, nodeID string) (entities.Aggregate, error) {
	logger := ResolveLogger(s.Logger)
	aggregate, err := s.Aggregate(ctx, electionID, nodeID)
	if err != nil {
		return entities.Aggregate{}, err
	}
	if err := s.Writer.UpsertDerivedSheet(ctx, aggregate); err != nil {
		if !errors.Is(err, domainerrors.ErrConcurrentModification) {
			return entities.Aggregate{}, err
		}
		logger.Warn("derived sheet save conflicted, retrying once",
			"event", "collation_derived_sheet_conflict",
			"module", "results-collation/aggregation-engine",
			"layer", "application",
			"election_id", electionID,
			"node_id", nodeID,
		)
		aggregate, err = s.Aggregate(ctx, electionID, nodeID)
		if err != nil {
			return entities.Aggregate{}, err
		}
		if err := s.Writer.UpsertDerivedSheet(ctx, aggregate); err != nil {
			return entities.Aggregate{}, err
		}
	}
	logger.Info("derived sheet recomputed",
		"event", "collation_derived_sheet_recomputed",
		"module", "results-collation/aggregation-engine",
		"layer", "application",
		"election_id", electionID,
		"node_id", nodeID,
		"partial", aggregate.Partial,
	)
	return aggregate, nil
}

// RecomputeAncestors walks from the changed scope up to the root, refreshing
// each non-leaf ancestor in order so parents always fold in fresh children.
func (s Service) RecomputeAncestors(ctx context.Context, electionID string, scopeID string) error {
	ancestors, err := s.Hierarchy.Ancestors(ctx, electionID, scopeID)
	if err != nil {
		return err
	}
	for _, ancestor := range ancestors {
		if ancestor.IsLeaf() {
			continue
		}
		if _, err := s.Recompute(ctx, electionID, ancestor.NodeID); err != nil {
			return err
		}
	}
	return nil
}
