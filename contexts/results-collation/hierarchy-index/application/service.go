package application

import (
	"context"
	"log/slog"
	"strings"

	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	domainerrors "tally/contexts/results-collation/hierarchy-index/domain/errors"
	"tally/contexts/results-collation/hierarchy-index/ports"
)

type Service struct {
	Tree   ports.TreeReader
	Logger *slog.Logger
}

func (s Service) GetNode(ctx context.Context, nodeID string) (entities.Node, error) {
	if strings.TrimSpace(nodeID) == "" {
		return entities.Node{}, domainerrors.ErrNodeNotFound
	}
	return s.Tree.GetNode(ctx, nodeID)
}

func (s Service) Children(ctx context.Context, nodeID string) ([]entities.Node, error) {
	if strings.TrimSpace(nodeID) == "" {
		return nil, domainerrors.ErrNodeNotFound
	}
	return s.Tree.Children(ctx, nodeID)
}

func (s Service) Ancestors(ctx context.Context, nodeID string) ([]entities.Node, error) {
	if strings.TrimSpace(nodeID) == "" {
		return nil, domainerrors.ErrNodeNotFound
	}
	return s.Tree.Ancestors(ctx, nodeID)
}

func (s Service) ListByLevel(ctx context.Context, level string) ([]entities.Node, error) {
	parsed := entities.Level(strings.ToLower(strings.TrimSpace(level)))
	if !parsed.Valid() {
		return nil, domainerrors.ErrInvalidLevel
	}
	return s.Tree.ListByLevel(ctx, parsed)
}

func (s Service) LeafCount(ctx context.Context, nodeID string) (int, error) {
	if strings.TrimSpace(nodeID) == "" {
		return 0, domainerrors.ErrNodeNotFound
	}
	return s.Tree.LeafCount(ctx, nodeID)
}
