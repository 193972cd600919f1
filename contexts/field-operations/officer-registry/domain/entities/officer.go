package entities

import (
	"strings"
	"time"

	domainerrors "tally/contexts/field-operations/officer-registry/domain/errors"
)

// Officer roles. The exclusive roles admit one active holder per scope;
// collation clerks can be staffed in any number per scope.
const (
	RolePresiding       = "presiding"
	RoleReturning       = "returning"
	RoleDeputyReturning = "deputy-returning"
	RoleCollationClerk  = "collation-clerk"
)

func ValidRole(role string) bool {
	switch role {
	case RolePresiding, RoleReturning, RoleDeputyReturning, RoleCollationClerk:
		return true
	default:
		return false
	}
}

func ExclusiveRole(role string) bool {
	switch role {
	case RolePresiding, RoleReturning, RoleDeputyReturning:
		return true
	default:
		return false
	}
}

type Officer struct {
	OfficerID string
	FullName  string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// ValidateOfficer normalizes and checks registration input in place.
func ValidateOfficer(officer *Officer) error {
	officer.OfficerID = strings.TrimSpace(officer.OfficerID)
	officer.FullName = strings.TrimSpace(officer.FullName)
	officer.Phone = strings.TrimSpace(officer.Phone)
	officer.Email = strings.TrimSpace(officer.Email)
	if officer.OfficerID == "" || officer.FullName == "" {
		return domainerrors.ErrInvalidOfficerInput
	}
	return nil
}

// Assignment binds one officer to one scope in one role. Ended assignments
// are kept for audit; only active ones participate in exclusivity.
type Assignment struct {
	AssignmentID string
	ElectionID   string
	OfficerID    string
	ScopeID      string
	ScopeLevel   string
	Role         string
	Active       bool
	AssignedBy   string
	AssignedAt   time.Time
	EndedBy      string
	EndedAt      *time.Time
}
