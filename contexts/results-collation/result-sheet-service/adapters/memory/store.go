package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
	"tally/contexts/results-collation/result-sheet-service/ports"

	"github.com/google/uuid"
)

// Store keeps sheets and the append-only feed in memory. Saves enforce the
// same compare-and-swap discipline as the postgres adapter so concurrency
// behavior is identical under test.
type Store struct {
	mu sync.RWMutex

	sheets    map[string]entities.Sheet
	byScope   map[string]string // election_id|scope_id -> sheet_id
	feed      []ports.FeedEvent
	published map[string]bool // feed event id -> relayed to the bus
}

func NewStore(seed []entities.Sheet) *Store {
	sheets := make(map[string]entities.Sheet, len(seed))
	byScope := make(map[string]string, len(seed))
	for _, sheet := range seed {
		sheets[sheet.SheetID] = cloneSheet(sheet)
		byScope[scopeKey(sheet.ElectionID, sheet.ScopeID)] = sheet.SheetID
	}
	return &Store{
		sheets:    sheets,
		byScope:   byScope,
		published: make(map[string]bool),
	}
}

func (s *Store) CreateSheet(_ context.Context, sheet entities.Sheet, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scopeKey(sheet.ElectionID, sheet.ScopeID)
	if _, exists := s.byScope[key]; exists {
		return domainerrors.ErrDuplicateScope
	}
	if _, exists := s.sheets[sheet.SheetID]; exists {
		return domainerrors.ErrDuplicateScope
	}
	s.sheets[sheet.SheetID] = cloneSheet(sheet)
	s.byScope[key] = sheet.SheetID
	if event != nil {
		s.feed = append(s.feed, cloneEvent(*event))
	}
	return nil
}

func (s *Store) GetSheet(_ context.Context, sheetID string) (entities.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.sheets[strings.TrimSpace(sheetID)]
	if !ok {
		return entities.Sheet{}, domainerrors.ErrSheetNotFound
	}
	return cloneSheet(sheet), nil
}

func (s *Store) GetSheetByScope(_ context.Context, electionID string, scopeID string) (entities.Sheet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheetID, ok := s.byScope[scopeKey(electionID, scopeID)]
	if !ok {
		return entities.Sheet{}, false, nil
	}
	return cloneSheet(s.sheets[sheetID]), true, nil
}

func (s *Store) SaveSheet(_ context.Context, sheet entities.Sheet, expectedVersion int64, event *ports.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sheets[sheet.SheetID]
	if !ok {
		return domainerrors.ErrSheetNotFound
	}
	if stored.Version != expectedVersion {
		return domainerrors.ErrConcurrentModification
	}
	s.sheets[sheet.SheetID] = cloneSheet(sheet)
	if event != nil {
		s.feed = append(s.feed, cloneEvent(*event))
	}
	return nil
}

func (s *Store) ListSheets(_ context.Context, filter ports.SheetFilter) ([]entities.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Sheet
	for _, sheet := range s.sheets {
		if filter.ElectionID != "" && sheet.ElectionID != filter.ElectionID {
			continue
		}
		if filter.ScopeID != "" && sheet.ScopeID != strings.TrimSpace(filter.ScopeID) {
			continue
		}
		if filter.ScopeLevel != "" && sheet.ScopeLevel != strings.ToLower(strings.TrimSpace(filter.ScopeLevel)) {
			continue
		}
		if filter.Status != "" && sheet.Status != filter.Status {
			continue
		}
		if filter.Derived != nil && sheet.Derived != *filter.Derived {
			continue
		}
		items = append(items, cloneSheet(sheet))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].SheetID < items[j].SheetID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// FeedEvents returns a copy of the feed in append order. Test and read-side
// wiring only; the feed itself is never mutated.
func (s *Store) FeedEvents() []ports.FeedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.FeedEvent, 0, len(s.feed))
	for _, event := range s.feed {
		items = append(items, cloneEvent(event))
	}
	return items
}

func (s *Store) ListUnpublishedFeedEvents(_ context.Context, limit int) ([]ports.FeedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []ports.FeedEvent
	for _, event := range s.feed {
		if s.published[event.EventID] {
			continue
		}
		items = append(items, cloneEvent(event))
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkFeedEventPublished(_ context.Context, eventID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published[eventID] = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func scopeKey(electionID string, scopeID string) string {
	return strings.TrimSpace(electionID) + "|" + strings.TrimSpace(scopeID)
}

func cloneSheet(sheet entities.Sheet) entities.Sheet {
	cloned := sheet
	cloned.Entries = append([]entities.Entry(nil), sheet.Entries...)
	cloned.Rejections = append([]entities.RejectionRecord(nil), sheet.Rejections...)
	return cloned
}

func cloneEvent(event ports.FeedEvent) ports.FeedEvent {
	cloned := event
	if event.Metadata != nil {
		cloned.Metadata = make(map[string]any, len(event.Metadata))
		for key, value := range event.Metadata {
			cloned.Metadata[key] = value
		}
	}
	return cloned
}

var (
	_ ports.SheetRepository      = (*Store)(nil)
	_ ports.FeedOutboxRepository = (*Store)(nil)
)
