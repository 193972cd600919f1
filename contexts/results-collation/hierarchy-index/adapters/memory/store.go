package memory

import (
	"context"
	"sort"
	"strings"

	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	domainerrors "tally/contexts/results-collation/hierarchy-index/domain/errors"
	"tally/contexts/results-collation/hierarchy-index/ports"
)

// Store is the immutable in-memory tree index. All indexes are built once
// at construction, so reads need no locking.
type Store struct {
	nodes     map[string]entities.Node
	children  map[string][]string
	leafCount map[string]int
}

func NewStore(seed []entities.Node) (*Store, error) {
	if err := entities.ValidateNodes(seed); err != nil {
		return nil, err
	}

	nodes := make(map[string]entities.Node, len(seed))
	children := make(map[string][]string)
	for _, node := range seed {
		id := strings.TrimSpace(node.NodeID)
		nodes[id] = node
		parentID := strings.TrimSpace(node.ParentID)
		if parentID != "" {
			children[parentID] = append(children[parentID], id)
		}
	}
	for parentID := range children {
		sort.Strings(children[parentID])
	}

	store := &Store{
		nodes:     nodes,
		children:  children,
		leafCount: make(map[string]int, len(nodes)),
	}
	for id := range nodes {
		store.leafCount[id] = store.countLeaves(id)
	}
	return store, nil
}

func (s *Store) countLeaves(nodeID string) int {
	node := s.nodes[nodeID]
	if node.Level.IsLeaf() {
		return 1
	}
	total := 0
	for _, childID := range s.children[nodeID] {
		total += s.countLeaves(childID)
	}
	return total
}

func (s *Store) GetNode(_ context.Context, nodeID string) (entities.Node, error) {
	node, ok := s.nodes[strings.TrimSpace(nodeID)]
	if !ok {
		return entities.Node{}, domainerrors.ErrNodeNotFound
	}
	return node, nil
}

func (s *Store) Parent(_ context.Context, nodeID string) (entities.Node, bool, error) {
	node, ok := s.nodes[strings.TrimSpace(nodeID)]
	if !ok {
		return entities.Node{}, false, domainerrors.ErrNodeNotFound
	}
	parentID := strings.TrimSpace(node.ParentID)
	if parentID == "" {
		return entities.Node{}, false, nil
	}
	parent, ok := s.nodes[parentID]
	if !ok {
		return entities.Node{}, false, domainerrors.ErrNodeNotFound
	}
	return parent, true, nil
}

func (s *Store) Children(_ context.Context, nodeID string) ([]entities.Node, error) {
	id := strings.TrimSpace(nodeID)
	if _, ok := s.nodes[id]; !ok {
		return nil, domainerrors.ErrNodeNotFound
	}
	items := make([]entities.Node, 0, len(s.children[id]))
	for _, childID := range s.children[id] {
		items = append(items, s.nodes[childID])
	}
	return items, nil
}

func (s *Store) ListByLevel(_ context.Context, level entities.Level) ([]entities.Node, error) {
	if !level.Valid() {
		return nil, domainerrors.ErrInvalidLevel
	}
	var items []entities.Node
	for _, node := range s.nodes {
		if node.Level == level {
			items = append(items, node)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].NodeID < items[j].NodeID })
	return items, nil
}

func (s *Store) LeafCount(_ context.Context, nodeID string) (int, error) {
	count, ok := s.leafCount[strings.TrimSpace(nodeID)]
	if !ok {
		return 0, domainerrors.ErrNodeNotFound
	}
	return count, nil
}

func (s *Store) Ancestors(_ context.Context, nodeID string) ([]entities.Node, error) {
	node, ok := s.nodes[strings.TrimSpace(nodeID)]
	if !ok {
		return nil, domainerrors.ErrNodeNotFound
	}
	var chain []entities.Node
	for {
		parentID := strings.TrimSpace(node.ParentID)
		if parentID == "" {
			return chain, nil
		}
		parent, ok := s.nodes[parentID]
		if !ok {
			return nil, domainerrors.ErrNodeNotFound
		}
		chain = append(chain, parent)
		node = parent
	}
}

var _ ports.TreeReader = (*Store)(nil)
