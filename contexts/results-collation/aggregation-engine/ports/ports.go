package ports

import (
	"context"
	"time"

	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	contractsv1 "tally/contracts/gen/events/v1"
)

// GeoNode mirrors the committed geographic hierarchy rows the engine walks.
type GeoNode struct {
	NodeID           string
	Name             string
	Level            string
	ParentID         string
	RegisteredVoters int64
}

func (n GeoNode) IsLeaf() bool {
	return n.Level == "station"
}

// Hierarchy reads the fixed geographic tree for an election.
type Hierarchy interface {
	GetNode(ctx context.Context, electionID string, nodeID string) (GeoNode, error)
	Children(ctx context.Context, electionID string, nodeID string) ([]GeoNode, error)
	// Ancestors returns the chain from the node's parent up to the root,
	// nearest first.
	Ancestors(ctx context.Context, electionID string, nodeID string) ([]GeoNode, error)
}

// SheetSource reads committed sheet state for rollup input. Absence is not
// an error: a scope with no sheet yet simply does not contribute.
type SheetSource interface {
	GetSheetByScope(ctx context.Context, electionID string, scopeID string) (entities.ChildSheet, bool, error)
}

// DerivedSheetWriter persists a recomputed aggregate as the derived sheet
// for its node. Implementations must only overwrite derived sheets that
// are still in draft; reviewed derived sheets are frozen until rejected.
type DerivedSheetWriter interface {
	UpsertDerivedSheet(ctx context.Context, aggregate entities.Aggregate) error
}

type EventEnvelope = contractsv1.Envelope

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}
