package postgresadapter

import (
	"time"

	"tally/contexts/results-collation/aggregation-engine/ports"
)

// SystemClock provides wall-clock time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}
