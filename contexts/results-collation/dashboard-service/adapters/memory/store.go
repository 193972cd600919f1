package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/results-collation/dashboard-service/ports"
)

// Node is the slice of the geographic tree the dashboard needs.
type Node struct {
	NodeID   string
	Name     string
	Level    string
	ParentID string
}

// SheetSeed is the committed sheet state the projections read.
type SheetSeed struct {
	ScopeID          string
	ScopeLevel       string
	Status           string
	Derived          bool
	RegisteredVoters int64
	VotesCast        int64
	ValidVotes       int64
	RejectedVotes    int64
	Entries          []ports.CandidateTally
}

// Store is an in-memory projection source for tests and the in-memory
// runtime. Seed it with nodes, sheets and feed rows, then query.
type Store struct {
	mu sync.RWMutex

	nodes         map[string]map[string]Node
	sheets        map[string]map[string]SheetSeed
	feed          map[string][]ports.FeedEntry
	openIncidents map[string]int64
}

func NewStore() *Store {
	return &Store{
		nodes:         make(map[string]map[string]Node),
		sheets:        make(map[string]map[string]SheetSeed),
		feed:          make(map[string][]ports.FeedEntry),
		openIncidents: make(map[string]int64),
	}
}

func (s *Store) SetNode(electionID string, node Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodes[electionID] == nil {
		s.nodes[electionID] = make(map[string]Node)
	}
	s.nodes[electionID][node.NodeID] = node
}

func (s *Store) SetSheet(electionID string, sheet SheetSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sheets[electionID] == nil {
		s.sheets[electionID] = make(map[string]SheetSeed)
	}
	s.sheets[electionID][sheet.ScopeID] = sheet
}

func (s *Store) AppendFeed(electionID string, entry ports.FeedEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed[electionID] = append(s.feed[electionID], entry)
}

func (s *Store) SetOpenIncidents(electionID string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openIncidents[electionID] = count
}

func aggregable(status string) bool {
	return status == "approved" || status == "certified"
}

func reported(status string) bool {
	return status != "" && status != "draft"
}

func (s *Store) Summary(_ context.Context, electionID string) (ports.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := ports.Summary{
		ElectionID:   electionID,
		StatusCounts: make(map[string]int64),
	}
	for _, node := range s.nodes[electionID] {
		if node.Level == "station" {
			summary.LeafScopes++
		}
	}
	for _, sheet := range s.sheets[electionID] {
		if sheet.Derived {
			continue
		}
		summary.StatusCounts[sheet.Status]++
		if reported(sheet.Status) {
			summary.ReportedScopes++
		}
		if aggregable(sheet.Status) {
			summary.AggregableScopes++
		}
		if sheet.Status == "certified" {
			summary.CertifiedScopes++
		}
	}
	if national, ok := s.nationalSheet(electionID); ok {
		summary.RegisteredVoters = national.RegisteredVoters
		summary.VotesCast = national.VotesCast
		summary.ValidVotes = national.ValidVotes
		summary.RejectedVotes = national.RejectedVotes
		summary.HasNationalTally = true
	}
	summary.OpenIncidents = s.openIncidents[electionID]
	return summary, nil
}

func (s *Store) RegionalBreakdown(_ context.Context, electionID string) ([]ports.RegionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := s.nodes[electionID]
	rows := make(map[string]*ports.RegionRow)
	for _, node := range nodes {
		if node.Level != "region" {
			continue
		}
		rows[node.NodeID] = &ports.RegionRow{RegionID: node.NodeID, Name: node.Name}
	}
	for _, node := range nodes {
		if node.Level != "station" {
			continue
		}
		regionID := s.regionOf(nodes, node)
		row, ok := rows[regionID]
		if !ok {
			continue
		}
		row.ExpectedLeaves++
		sheet, hasSheet := s.sheets[electionID][node.NodeID]
		if !hasSheet || sheet.Derived {
			continue
		}
		if reported(sheet.Status) {
			row.ReportedLeaves++
		}
		if aggregable(sheet.Status) {
			row.AggregableLeaves++
		}
	}
	breakdown := make([]ports.RegionRow, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, *row)
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].RegionID < breakdown[j].RegionID })
	return breakdown, nil
}

func (s *Store) LeadingCandidates(_ context.Context, electionID string) ([]ports.CandidateTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	national, ok := s.nationalSheet(electionID)
	if !ok {
		return []ports.CandidateTally{}, nil
	}
	tallies := append([]ports.CandidateTally(nil), national.Entries...)
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].PositionID != tallies[j].PositionID {
			return tallies[i].PositionID < tallies[j].PositionID
		}
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].CandidateID < tallies[j].CandidateID
	})
	return tallies, nil
}

func (s *Store) ListFeed(_ context.Context, electionID string, before time.Time, limit int) ([]ports.FeedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]ports.FeedEntry(nil), s.feed[electionID]...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PerformedAt.Equal(entries[j].PerformedAt) {
			return entries[i].EventID > entries[j].EventID
		}
		return entries[i].PerformedAt.After(entries[j].PerformedAt)
	})
	page := make([]ports.FeedEntry, 0, limit)
	for _, entry := range entries {
		if !before.IsZero() && !entry.PerformedAt.Before(before) {
			continue
		}
		page = append(page, entry)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (s *Store) nationalSheet(electionID string) (SheetSeed, bool) {
	for _, sheet := range s.sheets[electionID] {
		if strings.EqualFold(sheet.ScopeLevel, "national") {
			return sheet, true
		}
	}
	return SheetSeed{}, false
}

func (s *Store) regionOf(nodes map[string]Node, node Node) string {
	for node.ParentID != "" {
		parent, ok := nodes[node.ParentID]
		if !ok {
			return ""
		}
		if parent.Level == "region" {
			return parent.NodeID
		}
		node = parent
	}
	return ""
}

var _ ports.DashboardRepository = (*Store)(nil)
