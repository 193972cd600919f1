package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/results-collation/aggregation-engine/domain/entities"
	domainerrors "tally/contexts/results-collation/aggregation-engine/domain/errors"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

// DerivedRecord is the in-memory persisted form of a recomputed rollup.
type DerivedRecord struct {
	Aggregate entities.Aggregate
	Status    string
	Version   int64
	UpdatedAt time.Time
}

// Store is an in-memory hierarchy, sheet source and derived-sheet sink for
// the aggregation engine. It backs tests and the in-memory runtime.
type Store struct {
	mu      sync.RWMutex
	nodes   map[string]map[string]ports.GeoNode
	sheets  map[string]entities.ChildSheet
	derived map[string]DerivedRecord
	now     time.Time
	// FailUpserts injects optimistic-lock conflicts: each upsert consumes
	// one and fails until the counter reaches zero.
	FailUpserts int
}

func NewStore() *Store {
	return &Store{
		nodes:   make(map[string]map[string]ports.GeoNode),
		sheets:  make(map[string]entities.ChildSheet),
		derived: make(map[string]DerivedRecord),
	}
}

func scopeKey(electionID string, scopeID string) string {
	return strings.TrimSpace(electionID) + "|" + strings.TrimSpace(scopeID)
}

// SetNode seeds one hierarchy node for an election.
func (s *Store) SetNode(electionID string, node ports.GeoNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodes[electionID] == nil {
		s.nodes[electionID] = make(map[string]ports.GeoNode)
	}
	s.nodes[electionID][node.NodeID] = node
}

// SetSheet seeds the committed sheet state for one scope.
func (s *Store) SetSheet(electionID string, sheet entities.ChildSheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[scopeKey(electionID, sheet.ScopeID)] = sheet
}

// SetNow pins the clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) GetNode(_ context.Context, electionID string, nodeID string) (ports.GeoNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[strings.TrimSpace(electionID)][strings.TrimSpace(nodeID)]
	if !ok {
		return ports.GeoNode{}, domainerrors.ErrNodeNotFound
	}
	return node, nil
}

func (s *Store) Children(_ context.Context, electionID string, nodeID string) ([]ports.GeoNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodeID = strings.TrimSpace(nodeID)
	var children []ports.GeoNode
	for _, node := range s.nodes[strings.TrimSpace(electionID)] {
		if node.ParentID == nodeID {
			children = append(children, node)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].NodeID < children[j].NodeID })
	return children, nil
}

func (s *Store) Ancestors(_ context.Context, electionID string, nodeID string) ([]ports.GeoNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election := s.nodes[strings.TrimSpace(electionID)]
	node, ok := election[strings.TrimSpace(nodeID)]
	if !ok {
		return nil, domainerrors.ErrNodeNotFound
	}
	var chain []ports.GeoNode
	for node.ParentID != "" {
		parent, ok := election[node.ParentID]
		if !ok {
			return nil, domainerrors.ErrNodeNotFound
		}
		chain = append(chain, parent)
		node = parent
	}
	return chain, nil
}

func (s *Store) GetSheetByScope(_ context.Context, electionID string, scopeID string) (entities.ChildSheet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.sheets[scopeKey(electionID, scopeID)]
	if !ok {
		return entities.ChildSheet{}, false, nil
	}
	return cloneSheet(sheet), true, nil
}

// UpsertDerivedSheet stores the aggregate as the node's derived sheet.
// A derived sheet that has moved past draft is frozen and left untouched.
func (s *Store) UpsertDerivedSheet(_ context.Context, aggregate entities.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpserts > 0 {
		s.FailUpserts--
		return domainerrors.ErrConcurrentModification
	}
	key := scopeKey(aggregate.ElectionID, aggregate.NodeID)
	record, exists := s.derived[key]
	if exists && record.Status != "draft" {
		return nil
	}
	version := int64(1)
	if exists {
		version = record.Version + 1
	}
	s.derived[key] = DerivedRecord{
		Aggregate: aggregate,
		Status:    "draft",
		Version:   version,
		UpdatedAt: s.clockNow(),
	}
	return nil
}

// DerivedSheet returns the stored rollup for a node, if any.
func (s *Store) DerivedSheet(electionID string, nodeID string) (DerivedRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.derived[scopeKey(electionID, nodeID)]
	return record, ok
}

// SetDerivedStatus moves a stored derived sheet through review states so
// freeze behavior can be exercised.
func (s *Store) SetDerivedStatus(electionID string, nodeID string, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scopeKey(electionID, nodeID)
	record, ok := s.derived[key]
	if !ok {
		return
	}
	record.Status = status
	s.derived[key] = record
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clockNow()
}

func (s *Store) clockNow() time.Time {
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func cloneSheet(sheet entities.ChildSheet) entities.ChildSheet {
	clone := sheet
	clone.Entries = append([]entities.Entry(nil), sheet.Entries...)
	return clone
}

var (
	_ ports.Hierarchy          = (*Store)(nil)
	_ ports.SheetSource        = (*Store)(nil)
	_ ports.DerivedSheetWriter = (*Store)(nil)
	_ ports.Clock              = (*Store)(nil)
)
