package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the versioned wire form of a collation feed event. Consumers
// key on EventType (`collation.feed.<action>`) and partition on the scope
// that changed. Field removals or renames require a new version directory.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}
