package postgresadapter

import (
	"time"

	"tally/contexts/field-operations/incident-tracker/ports"
)

// SystemClock provides wall-clock time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}
