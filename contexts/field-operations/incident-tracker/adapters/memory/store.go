package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
	"tally/contexts/field-operations/incident-tracker/ports"

	"github.com/google/uuid"
)

// Store keeps incidents and their feed rows in memory. SaveIncident only
// lands on a still-open incident, matching the postgres adapter's guarded
// update under concurrent resolves.
type Store struct {
	mu sync.RWMutex

	incidents map[string]entities.Incident
	feed      []ports.FeedEvent
}

func NewStore(seed []entities.Incident) *Store {
	incidents := make(map[string]entities.Incident, len(seed))
	for _, incident := range seed {
		incidents[incident.IncidentID] = cloneIncident(incident)
	}
	return &Store{incidents: incidents}
}

func (s *Store) CreateIncident(_ context.Context, incident entities.Incident, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents[incident.IncidentID] = cloneIncident(incident)
	if event != nil {
		s.feed = append(s.feed, *event)
	}
	return nil
}

func (s *Store) GetIncident(_ context.Context, incidentID string) (entities.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	incident, ok := s.incidents[strings.TrimSpace(incidentID)]
	if !ok {
		return entities.Incident{}, domainerrors.ErrIncidentNotFound
	}
	return cloneIncident(incident), nil
}

func (s *Store) SaveIncident(_ context.Context, incident entities.Incident, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.incidents[incident.IncidentID]
	if !ok {
		return domainerrors.ErrIncidentNotFound
	}
	if stored.Status == entities.StatusResolved {
		return domainerrors.ErrAlreadyResolved
	}
	s.incidents[incident.IncidentID] = cloneIncident(incident)
	if event != nil {
		s.feed = append(s.feed, *event)
	}
	return nil
}

func (s *Store) ListIncidents(_ context.Context, filter ports.IncidentFilter) ([]entities.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Incident
	for _, incident := range s.incidents {
		if filter.ElectionID != "" && incident.ElectionID != filter.ElectionID {
			continue
		}
		if filter.ScopeID != "" && incident.ScopeID != filter.ScopeID {
			continue
		}
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && incident.Severity != filter.Severity {
			continue
		}
		if filter.Type != "" && incident.Type != filter.Type {
			continue
		}
		items = append(items, cloneIncident(incident))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ReportedAt.Equal(items[j].ReportedAt) {
			return items[i].IncidentID < items[j].IncidentID
		}
		return items[i].ReportedAt.Before(items[j].ReportedAt)
	})
	return items, nil
}

func (s *Store) CountsByStatus(_ context.Context, electionID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int64{
		entities.StatusOpen:     0,
		entities.StatusResolved: 0,
	}
	for _, incident := range s.incidents {
		if electionID != "" && incident.ElectionID != electionID {
			continue
		}
		counts[incident.Status]++
	}
	return counts, nil
}

// FeedEvents returns incident feed rows in append order, for tests.
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

func cloneIncident(incident entities.Incident) entities.Incident {
	cloned := incident
	if incident.ResolvedAt != nil {
		resolvedAt := *incident.ResolvedAt
		cloned.ResolvedAt = &resolvedAt
	}
	return cloned
}

var _ ports.IncidentRepository = (*Store)(nil)
