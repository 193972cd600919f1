package ports

import (
	"context"
	"strings"
	"time"

	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	contractsv1 "tally/contracts/gen/events/v1"
)

// Capabilities checked before mutating operations. The engine never
// resolves roles to capabilities; callers pass the granted set.
const (
	CapabilityRecord  = "collation:record"
	CapabilitySubmit  = "collation:submit"
	CapabilityVerify  = "collation:verify"
	CapabilityApprove = "collation:approve"
	CapabilityCertify = "collation:certify"
	CapabilityReject  = "collation:reject"
)

// Actor is the caller-supplied identity and capability grant set.
type Actor struct {
	OfficerID    string
	Capabilities []string
}

func (a Actor) Can(name string) bool {
	name = strings.TrimSpace(name)
	for _, granted := range a.Capabilities {
		if strings.EqualFold(strings.TrimSpace(granted), name) {
			return true
		}
	}
	return false
}

// FeedEvent is one append-only, immutable live feed record. Events written
// alongside a sheet save share the sheet's optimistic lock, which is what
// guarantees per-sheet causal order in the feed.
type FeedEvent struct {
	EventID     string
	ElectionID  string
	ActorID     string
	Action      string
	ScopeID     string
	ScopeLevel  string
	SheetID     string
	Metadata    map[string]any
	PerformedAt time.Time
}

type SheetFilter struct {
	ElectionID string
	ScopeID    string
	ScopeLevel string
	Status     entities.SheetStatus
	Derived    *bool
}

// SheetRepository persists sheets with compare-and-swap versioning.
//
// SaveSheet stores the given sheet only when the persisted version still
// equals expectedVersion, writing the feed event (when non-nil) atomically
// with the sheet; a lost race returns ErrConcurrentModification and applies
// nothing. CreateSheet enforces one authoritative sheet per
// (election, scope).
type SheetRepository interface {
	CreateSheet(ctx context.Context, sheet entities.Sheet, event *FeedEvent) error
	GetSheet(ctx context.Context, sheetID string) (entities.Sheet, error)
	GetSheetByScope(ctx context.Context, electionID string, scopeID string) (entities.Sheet, bool, error)
	SaveSheet(ctx context.Context, sheet entities.Sheet, expectedVersion int64, event *FeedEvent) error
	ListSheets(ctx context.Context, filter SheetFilter) ([]entities.Sheet, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// FeedOutboxRepository exposes the unpublished tail of the persisted feed
// so the relay can push it to the bus, oldest first.
type FeedOutboxRepository interface {
	ListUnpublishedFeedEvents(ctx context.Context, limit int) ([]FeedEvent, error)
	MarkFeedEventPublished(ctx context.Context, eventID string, publishedAt time.Time) error
}
