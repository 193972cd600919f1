package entities

import (
	"strings"
	"time"

	domainerrors "tally/contexts/field-operations/incident-tracker/domain/errors"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

const (
	TypeBallotDispute       = "ballot-dispute"
	TypeEquipmentFailure    = "equipment-failure"
	TypeProceduralViolation = "procedural-violation"
	TypeSecurity            = "security"
	TypeOther               = "other"
)

func ValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

func ValidIncidentType(incidentType string) bool {
	switch incidentType {
	case TypeBallotDispute, TypeEquipmentFailure, TypeProceduralViolation, TypeSecurity, TypeOther:
		return true
	default:
		return false
	}
}

type Incident struct {
	IncidentID      string
	ElectionID      string
	ScopeID         string
	ScopeLevel      string
	Type            string
	Severity        string
	Description     string
	Status          string
	ReportedBy      string
	ReportedAt      time.Time
	ResolvedBy      string
	ResolvedAt      *time.Time
	ResolutionNotes string
}

// ValidateIncident normalizes and checks a new report in place.
func ValidateIncident(incident *Incident) error {
	incident.ElectionID = strings.TrimSpace(incident.ElectionID)
	incident.ScopeID = strings.TrimSpace(incident.ScopeID)
	incident.ScopeLevel = strings.ToLower(strings.TrimSpace(incident.ScopeLevel))
	incident.Type = strings.ToLower(strings.TrimSpace(incident.Type))
	incident.Severity = strings.ToLower(strings.TrimSpace(incident.Severity))
	incident.Description = strings.TrimSpace(incident.Description)
	if incident.ElectionID == "" || incident.ScopeID == "" || incident.ScopeLevel == "" || incident.Description == "" {
		return domainerrors.ErrInvalidIncidentInput
	}
	if !ValidIncidentType(incident.Type) {
		return domainerrors.ErrInvalidIncidentType
	}
	if !ValidSeverity(incident.Severity) {
		return domainerrors.ErrInvalidSeverity
	}
	return nil
}
