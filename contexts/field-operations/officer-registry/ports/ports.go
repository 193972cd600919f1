package ports

import (
	"context"
	"strings"
	"time"

	"tally/contexts/field-operations/officer-registry/domain/entities"
)

const CapabilityAssign = "collation:assign"

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

// FeedEvent mirrors the live feed row written alongside staffing changes.
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

type AssignmentFilter struct {
	ElectionID string
	OfficerID  string
	ScopeID    string
	Role       string
	ActiveOnly bool
}

type OfficerRepository interface {
	CreateOfficer(ctx context.Context, officer entities.Officer) error
	GetOfficer(ctx context.Context, officerID string) (entities.Officer, error)
	ListOfficers(ctx context.Context) ([]entities.Officer, error)
}

// AssignmentRepository persists assignments and enforces exclusivity
// atomically with the insert.
//
// CreateAssignment fails with ErrScopeAlreadyAssigned when the scope
// already has an active assignment in the same exclusive role, and with
// ErrOfficerAlreadyAssigned when the officer already holds any active
// exclusive assignment in the election or any active assignment on the
// same scope. The feed event (when non-nil) is written in the same
// transaction.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment entities.Assignment, event *FeedEvent) error
	GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error)
	EndAssignment(ctx context.Context, assignment entities.Assignment, event *FeedEvent) error
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]entities.Assignment, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
