package errors

import "errors"

var (
	ErrElectionRequired       = errors.New("election id is required")
	ErrNodeNotFound           = errors.New("geographic node not found")
	ErrNotAggregable          = errors.New("node has no children to aggregate")
	ErrConcurrentModification = errors.New("derived sheet was modified concurrently")
)
