package postgresadapter

import (
	"context"

	"tally/contexts/field-operations/incident-tracker/ports"

	"github.com/google/uuid"
)

// UUIDGenerator issues v4 identifiers for incidents and feed events.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.IDGenerator = UUIDGenerator{}
