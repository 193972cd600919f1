package errors

import "errors"

var (
	ErrIncidentNotFound        = errors.New("incident not found")
	ErrInvalidIncidentInput    = errors.New("incident input is invalid")
	ErrInvalidSeverity         = errors.New("unknown incident severity")
	ErrInvalidIncidentType     = errors.New("unknown incident type")
	ErrAlreadyResolved         = errors.New("incident has already been resolved")
	ErrResolutionNotesRequired = errors.New("resolution notes are required")
	ErrPermissionDenied        = errors.New("actor lacks the required capability")
)
