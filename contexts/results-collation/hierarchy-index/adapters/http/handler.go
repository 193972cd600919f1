package httpadapter

import (
	"context"
	"log/slog"

	"tally/contexts/results-collation/hierarchy-index/application"
	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	httptransport "tally/contexts/results-collation/hierarchy-index/transport/http"
)

type Handler struct {
	Queries application.Service
	Logger  *slog.Logger
}

func (h Handler) GetNodeHandler(ctx context.Context, nodeID string) (httptransport.NodeResponse, error) {
	node, err := h.Queries.GetNode(ctx, nodeID)
	if err != nil {
		return httptransport.NodeResponse{}, err
	}
	leaves, err := h.Queries.LeafCount(ctx, nodeID)
	if err != nil {
		return httptransport.NodeResponse{}, err
	}
	return toNodeResponse(node, leaves), nil
}

func (h Handler) ChildrenHandler(ctx context.Context, nodeID string) (httptransport.NodeListResponse, error) {
	nodes, err := h.Queries.Children(ctx, nodeID)
	if err != nil {
		return httptransport.NodeListResponse{}, err
	}
	return h.toListResponse(ctx, nodes)
}

func (h Handler) ListByLevelHandler(ctx context.Context, level string) (httptransport.NodeListResponse, error) {
	nodes, err := h.Queries.ListByLevel(ctx, level)
	if err != nil {
		return httptransport.NodeListResponse{}, err
	}
	return h.toListResponse(ctx, nodes)
}

func (h Handler) toListResponse(ctx context.Context, nodes []entities.Node) (httptransport.NodeListResponse, error) {
	items := make([]httptransport.NodeResponse, 0, len(nodes))
	for _, node := range nodes {
		leaves, err := h.Queries.LeafCount(ctx, node.NodeID)
		if err != nil {
			return httptransport.NodeListResponse{}, err
		}
		items = append(items, toNodeResponse(node, leaves))
	}
	return httptransport.NodeListResponse{Items: items}, nil
}

func toNodeResponse(node entities.Node, leaves int) httptransport.NodeResponse {
	return httptransport.NodeResponse{
		NodeID:           node.NodeID,
		Name:             node.Name,
		Level:            string(node.Level),
		ParentID:         node.ParentID,
		RegisteredVoters: node.RegisteredVoters,
		LeafStations:     leaves,
	}
}
