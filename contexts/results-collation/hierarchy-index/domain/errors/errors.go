package errors

import "errors"

var (
	ErrNodeNotFound     = errors.New("geographic node not found")
	ErrInvalidLevel     = errors.New("invalid hierarchy level")
	ErrInvalidHierarchy = errors.New("invalid geographic hierarchy")
)
