package errors

import "errors"

var (
	ErrOfficerNotFound        = errors.New("officer not found")
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrInvalidOfficerInput    = errors.New("officer input is invalid")
	ErrInvalidAssignmentInput = errors.New("assignment input is invalid")
	ErrInvalidRole            = errors.New("unknown officer role")
	ErrDuplicateOfficer       = errors.New("officer id is already registered")
	ErrScopeAlreadyAssigned   = errors.New("scope already has an active assignment for this role")
	ErrOfficerAlreadyAssigned = errors.New("officer already holds a conflicting active assignment")
	ErrAssignmentEnded        = errors.New("assignment has already ended")
	ErrPermissionDenied       = errors.New("actor lacks the required capability")
)
