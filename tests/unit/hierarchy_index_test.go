package unit

import (
	"context"
	"errors"
	"testing"

	hierarchyindex "tally/contexts/results-collation/hierarchy-index"
	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	domainerrors "tally/contexts/results-collation/hierarchy-index/domain/errors"
)

func smallTree() []entities.Node {
	return []entities.Node{
		{NodeID: "national-1", Name: "Federal", Level: entities.LevelNational},
		{NodeID: "region-1", Name: "South West", Level: entities.LevelRegion, ParentID: "national-1"},
		{NodeID: "constituency-1", Name: "Lagos Central", Level: entities.LevelConstituency, ParentID: "region-1"},
		{NodeID: "area-1", Name: "Ikeja", Level: entities.LevelArea, ParentID: "constituency-1"},
		{NodeID: "area-2", Name: "Surulere", Level: entities.LevelArea, ParentID: "constituency-1"},
		{NodeID: "station-1", Name: "Ikeja Ward 1", Level: entities.LevelStation, ParentID: "area-1", RegisteredVoters: 500},
		{NodeID: "station-2", Name: "Ikeja Ward 2", Level: entities.LevelStation, ParentID: "area-1", RegisteredVoters: 450},
		{NodeID: "station-3", Name: "Surulere Ward 1", Level: entities.LevelStation, ParentID: "area-2", RegisteredVoters: 600},
	}
}

func TestHierarchyRejectsBrokenTrees(t *testing.T) {
	cases := []struct {
		name string
		seed []entities.Node
	}{
		{
			name: "no national root",
			seed: []entities.Node{
				{NodeID: "region-1", Level: entities.LevelRegion},
			},
		},
		{
			name: "two national roots",
			seed: append(smallTree(), entities.Node{NodeID: "national-2", Level: entities.LevelNational}),
		},
		{
			name: "missing parent",
			seed: []entities.Node{
				{NodeID: "national-1", Level: entities.LevelNational},
				{NodeID: "region-1", Level: entities.LevelRegion, ParentID: "ghost"},
			},
		},
		{
			name: "station parented to region",
			seed: []entities.Node{
				{NodeID: "national-1", Level: entities.LevelNational},
				{NodeID: "region-1", Level: entities.LevelRegion, ParentID: "national-1"},
				{NodeID: "station-1", Level: entities.LevelStation, ParentID: "region-1"},
			},
		},
		{
			name: "rooted national with parent",
			seed: []entities.Node{
				{NodeID: "region-1", Level: entities.LevelRegion},
				{NodeID: "national-1", Level: entities.LevelNational, ParentID: "region-1"},
			},
		},
		{
			name: "duplicate node id",
			seed: append(smallTree(), entities.Node{NodeID: "station-1", Level: entities.LevelStation, ParentID: "area-1"}),
		},
		{
			name: "negative registered voters",
			seed: []entities.Node{
				{NodeID: "national-1", Level: entities.LevelNational, RegisteredVoters: -1},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := hierarchyindex.NewInMemoryModule(tc.seed, nil); !errors.Is(err, domainerrors.ErrInvalidHierarchy) {
				t.Fatalf("expected invalid hierarchy, got %v", err)
			}
		})
	}
}

func TestHierarchyGetNodeIncludesLeafStations(t *testing.T) {
	module, err := hierarchyindex.NewInMemoryModule(smallTree(), nil)
	if err != nil {
		t.Fatalf("build module failed: %v", err)
	}
	ctx := context.Background()

	node, err := module.Handler.GetNodeHandler(ctx, "constituency-1")
	if err != nil {
		t.Fatalf("get node failed: %v", err)
	}
	if node.Level != "constituency" || node.ParentID != "region-1" {
		t.Fatalf("unexpected node: %+v", node)
	}
	if node.LeafStations != 3 {
		t.Fatalf("expected 3 leaf stations under constituency-1, got %d", node.LeafStations)
	}

	leaf, err := module.Handler.GetNodeHandler(ctx, "station-2")
	if err != nil {
		t.Fatalf("get leaf failed: %v", err)
	}
	if leaf.LeafStations != 1 || leaf.RegisteredVoters != 450 {
		t.Fatalf("unexpected leaf: %+v", leaf)
	}

	if _, err := module.Handler.GetNodeHandler(ctx, "ghost"); !errors.Is(err, domainerrors.ErrNodeNotFound) {
		t.Fatalf("expected node not found, got %v", err)
	}
}

func TestHierarchyChildrenSortedByID(t *testing.T) {
	module, err := hierarchyindex.NewInMemoryModule(smallTree(), nil)
	if err != nil {
		t.Fatalf("build module failed: %v", err)
	}

	children, err := module.Handler.ChildrenHandler(context.Background(), "constituency-1")
	if err != nil {
		t.Fatalf("children failed: %v", err)
	}
	if len(children.Items) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(children.Items))
	}
	if children.Items[0].NodeID != "area-1" || children.Items[1].NodeID != "area-2" {
		t.Fatalf("expected id-sorted children, got %+v", children.Items)
	}
	if children.Items[0].LeafStations != 2 || children.Items[1].LeafStations != 1 {
		t.Fatalf("unexpected leaf counts: %+v", children.Items)
	}
}

func TestHierarchyListByLevel(t *testing.T) {
	module, err := hierarchyindex.NewInMemoryModule(smallTree(), nil)
	if err != nil {
		t.Fatalf("build module failed: %v", err)
	}
	ctx := context.Background()

	stations, err := module.Handler.ListByLevelHandler(ctx, "Station")
	if err != nil {
		t.Fatalf("list by level failed: %v", err)
	}
	if len(stations.Items) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(stations.Items))
	}

	if _, err := module.Handler.ListByLevelHandler(ctx, "province"); !errors.Is(err, domainerrors.ErrInvalidLevel) {
		t.Fatalf("expected invalid level, got %v", err)
	}
}

func TestHierarchyAncestorsNearestFirst(t *testing.T) {
	module, err := hierarchyindex.NewInMemoryModule(smallTree(), nil)
	if err != nil {
		t.Fatalf("build module failed: %v", err)
	}

	chain, err := module.Tree.Ancestors(context.Background(), "station-3")
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	want := []string{"area-2", "constituency-1", "region-1", "national-1"}
	if len(chain) != len(want) {
		t.Fatalf("expected %d ancestors, got %d", len(want), len(chain))
	}
	for i, id := range want {
		if chain[i].NodeID != id {
			t.Fatalf("ancestor %d: expected %s, got %s", i, id, chain[i].NodeID)
		}
	}
}
