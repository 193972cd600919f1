package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSheetNotFound           = errors.New("result sheet not found")
	ErrInvalidSheetInput       = errors.New("invalid result sheet input")
	ErrDuplicateScope          = errors.New("authoritative sheet already exists for scope")
	ErrInvalidState            = errors.New("sheet is not editable in its current state")
	ErrTerminalState           = errors.New("certified sheet is immutable")
	ErrInvalidTransition       = errors.New("invalid sheet transition")
	ErrTotalsInconsistent      = errors.New("sheet totals are inconsistent")
	ErrConcurrentModification  = errors.New("sheet was modified concurrently")
	ErrPermissionDenied        = errors.New("capability not granted")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrDerivedSheetImmutable   = errors.New("derived sheet cannot be edited manually")
	ErrSubmitPreconditions     = errors.New("sheet needs entries and totals before submit")
)

// InvalidTransitionError names the attempted action and the state that
// refused it, so callers can explain the failure ("cannot verify: sheet is
// in draft"). errors.Is against ErrInvalidTransition keeps transport
// mapping uniform.
type InvalidTransitionError struct {
	Action  string
	Current string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: sheet is in %s", e.Action, e.Current)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// TotalsInconsistentError reports a totals invariant violation. Applied
// distinguishes the soft case (entry sums diverge from hand-tallied valid
// votes: totals are stored, the sheet is flagged, submission stays
// permitted) from the hard case (arithmetic identity broken: totals are not
// applied at all).
type TotalsInconsistentError struct {
	Reason  string
	Applied bool
}

func (e *TotalsInconsistentError) Error() string {
	if e.Applied {
		return fmt.Sprintf("totals recorded with inconsistency: %s", e.Reason)
	}
	return fmt.Sprintf("totals rejected: %s", e.Reason)
}

func (e *TotalsInconsistentError) Is(target error) bool {
	return target == ErrTotalsInconsistent
}
