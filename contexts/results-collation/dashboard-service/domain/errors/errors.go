package errors

import "errors"

var (
	ErrElectionRequired = errors.New("election id is required")
)
