package ports

import (
	"context"
	"strings"
	"time"

	"tally/contexts/field-operations/incident-tracker/domain/entities"
)

const (
	CapabilityReport  = "collation:report"
	CapabilityResolve = "collation:resolve"
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

// FeedEvent mirrors the live feed row written alongside incident changes.
type FeedEvent struct {
	EventID     string
	ElectionID  string
	ActorID     string
	Action      string
	ScopeID     string
	ScopeLevel  string
	Metadata    map[string]any
	PerformedAt time.Time
}

type IncidentFilter struct {
	ElectionID string
	ScopeID    string
	Status     string
	Severity   string
	Type       string
}

// IncidentRepository persists incidents. SaveIncident must only close an
// incident that is still open so a concurrent double-resolve loses with
// ErrAlreadyResolved.
type IncidentRepository interface {
	CreateIncident(ctx context.Context, incident entities.Incident, event *FeedEvent) error
	GetIncident(ctx context.Context, incidentID string) (entities.Incident, error)
	SaveIncident(ctx context.Context, incident entities.Incident, event *FeedEvent) error
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]entities.Incident, error)
	CountsByStatus(ctx context.Context, electionID string) (map[string]int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
