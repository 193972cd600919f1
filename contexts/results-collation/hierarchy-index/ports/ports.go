package ports

import (
	"context"

	"tally/contexts/results-collation/hierarchy-index/domain/entities"
)

// TreeReader is the read surface the rest of collation depends on. The
// index owns the tree; consumers never mutate it.
type TreeReader interface {
	GetNode(ctx context.Context, nodeID string) (entities.Node, error)
	Parent(ctx context.Context, nodeID string) (entities.Node, bool, error)
	Children(ctx context.Context, nodeID string) ([]entities.Node, error)
	ListByLevel(ctx context.Context, level entities.Level) ([]entities.Node, error)
	// LeafCount returns the number of polling stations in the subtree
	// rooted at nodeID, including nodeID itself when it is a station.
	LeafCount(ctx context.Context, nodeID string) (int, error)
	// Ancestors returns the chain from the node's parent up to the
	// national root, nearest first.
	Ancestors(ctx context.Context, nodeID string) ([]entities.Node, error)
}

// NodeLoader supplies the one-time tree load used to build the index.
type NodeLoader interface {
	LoadNodes(ctx context.Context, electionID string) ([]entities.Node, error)
}
