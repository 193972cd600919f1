package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "tally/contexts/results-collation/result-sheet-service/application"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

const collationFeedTopic = "collation.feed"

// FeedRelay publishes persisted feed events to the event bus. Feed rows are
// written in the same transaction as the sheet change, so the relay is the
// only path from the durable feed to downstream consumers.
type FeedRelay struct {
	Feed      ports.FeedOutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of unpublished feed events and marks
// each row published only after broker publish succeeds. It stops on the
// first failure so the retry loop can reprocess remaining rows safely.
func (r FeedRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	logger.Info("feed relay cycle started",
		"event", "collation_feed_relay_started",
		"module", "results-collation/result-sheet-service",
		"layer", "worker",
		"batch_size", limit,
	)

	pending, err := r.Feed.ListUnpublishedFeedEvents(ctx, limit)
	if err != nil {
		logger.Error("feed relay list failed",
			"event", "collation_feed_relay_list_failed",
			"module", "results-collation/result-sheet-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("feed relay found no pending rows",
			"event", "collation_feed_relay_noop",
			"module", "results-collation/result-sheet-service",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, feedEvent := range pending {
		envelope, err := newFeedEnvelope(feedEvent)
		if err != nil {
			logger.Error("feed relay envelope build failed",
				"event", "collation_feed_relay_envelope_failed",
				"module", "results-collation/result-sheet-service",
				"layer", "worker",
				"feed_event_id", feedEvent.EventID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, collationFeedTopic, envelope); err != nil {
			logger.Error("feed relay publish failed",
				"event", "collation_feed_relay_publish_failed",
				"module", "results-collation/result-sheet-service",
				"layer", "worker",
				"feed_event_id", feedEvent.EventID,
				"action", feedEvent.Action,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Feed.MarkFeedEventPublished(ctx, feedEvent.EventID, now); err != nil {
			logger.Error("feed relay mark published failed",
				"event", "collation_feed_relay_mark_failed",
				"module", "results-collation/result-sheet-service",
				"layer", "worker",
				"feed_event_id", feedEvent.EventID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("feed relay cycle completed",
		"event", "collation_feed_relay_completed",
		"module", "results-collation/result-sheet-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}

// newFeedEnvelope wraps one feed row in the canonical envelope. The scope is
// the partition key so per-scope ordering survives partitioned transports.
func newFeedEnvelope(feedEvent ports.FeedEvent) (ports.EventEnvelope, error) {
	data, err := json.Marshal(map[string]any{
		"feed_event_id": feedEvent.EventID,
		"election_id":   feedEvent.ElectionID,
		"actor_id":      feedEvent.ActorID,
		"action":        feedEvent.Action,
		"scope_id":      feedEvent.ScopeID,
		"scope_level":   feedEvent.ScopeLevel,
		"sheet_id":      feedEvent.SheetID,
		"metadata":      feedEvent.Metadata,
		"performed_at":  feedEvent.PerformedAt.Format(time.RFC3339),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       feedEvent.EventID,
		EventType:     "collation.feed." + feedEvent.Action,
		OccurredAt:    feedEvent.PerformedAt.UTC(),
		SourceService: "result-sheet-service",
		SchemaVersion: 1,
		PartitionKey:  feedEvent.ScopeID,
		Data:          data,
	}, nil
}
