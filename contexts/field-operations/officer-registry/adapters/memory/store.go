package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/field-operations/officer-registry/domain/entities"
	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
	"tally/contexts/field-operations/officer-registry/ports"

	"github.com/google/uuid"
)

// Store keeps officers and assignments in memory. Exclusivity checks run
// under the same lock as the insert, matching the postgres adapter's
// transactional behavior under concurrent assigns.
type Store struct {
	mu sync.RWMutex

	officers    map[string]entities.Officer
	assignments map[string]entities.Assignment
	feed        []ports.FeedEvent
}

func NewStore(seed []entities.Officer) *Store {
	officers := make(map[string]entities.Officer, len(seed))
	for _, officer := range seed {
		officers[officer.OfficerID] = officer
	}
	return &Store{
		officers:    officers,
		assignments: make(map[string]entities.Assignment),
	}
}

func (s *Store) CreateOfficer(_ context.Context, officer entities.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officers[officer.OfficerID]; exists {
		return domainerrors.ErrDuplicateOfficer
	}
	s.officers[officer.OfficerID] = officer
	return nil
}

func (s *Store) GetOfficer(_ context.Context, officerID string) (entities.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	officer, ok := s.officers[strings.TrimSpace(officerID)]
	if !ok {
		return entities.Officer{}, domainerrors.ErrOfficerNotFound
	}
	return officer, nil
}

func (s *Store) ListOfficers(_ context.Context) ([]entities.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Officer, 0, len(s.officers))
	for _, officer := range s.officers {
		items = append(items, officer)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OfficerID < items[j].OfficerID })
	return items, nil
}

func (s *Store) CreateAssignment(_ context.Context, assignment entities.Assignment, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if !existing.Active || existing.ElectionID != assignment.ElectionID {
			continue
		}
		// One active assignment per (officer, scope) pair, whatever the
		// role.
		if existing.OfficerID == assignment.OfficerID && existing.ScopeID == assignment.ScopeID {
			return domainerrors.ErrOfficerAlreadyAssigned
		}
		if !entities.ExclusiveRole(assignment.Role) {
			continue
		}
		if existing.ScopeID == assignment.ScopeID && existing.Role == assignment.Role {
			return domainerrors.ErrScopeAlreadyAssigned
		}
		if existing.OfficerID == assignment.OfficerID && entities.ExclusiveRole(existing.Role) {
			return domainerrors.ErrOfficerAlreadyAssigned
		}
	}
	s.assignments[assignment.AssignmentID] = cloneAssignment(assignment)
	if event != nil {
		s.feed = append(s.feed, *event)
	}
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID string) (entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[strings.TrimSpace(assignmentID)]
	if !ok {
		return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	return cloneAssignment(assignment), nil
}

func (s *Store) EndAssignment(_ context.Context, assignment entities.Assignment, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[assignment.AssignmentID]; !ok {
		return domainerrors.ErrAssignmentNotFound
	}
	s.assignments[assignment.AssignmentID] = cloneAssignment(assignment)
	if event != nil {
		s.feed = append(s.feed, *event)
	}
	return nil
}

func (s *Store) ListAssignments(_ context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Assignment
	for _, assignment := range s.assignments {
		if filter.ElectionID != "" && assignment.ElectionID != filter.ElectionID {
			continue
		}
		if filter.OfficerID != "" && assignment.OfficerID != filter.OfficerID {
			continue
		}
		if filter.ScopeID != "" && assignment.ScopeID != filter.ScopeID {
			continue
		}
		if filter.Role != "" && assignment.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !assignment.Active {
			continue
		}
		items = append(items, cloneAssignment(assignment))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AssignedAt.Equal(items[j].AssignedAt) {
			return items[i].AssignmentID < items[j].AssignmentID
		}
		return items[i].AssignedAt.Before(items[j].AssignedAt)
	})
	return items, nil
}

// FeedEvents returns staffing feed rows in append order, for tests.
func (s *Store) FeedEvents() []ports.FeedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.FeedEvent(nil), s.feed...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneAssignment(assignment entities.Assignment) entities.Assignment {
	cloned := assignment
	if assignment.EndedAt != nil {
		endedAt := *assignment.EndedAt
		cloned.EndedAt = &endedAt
	}
	return cloned
}

var (
	_ ports.OfficerRepository    = (*Store)(nil)
	_ ports.AssignmentRepository = (*Store)(nil)
)
