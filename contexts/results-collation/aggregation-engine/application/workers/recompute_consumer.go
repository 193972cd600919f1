package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "tally/contexts/results-collation/aggregation-engine/application"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

const (
	collationFeedTopic = "collation.feed"
	defaultRecomputeCG = "aggregation-engine-recompute-cg"
)

// Feed actions that change which sheets contribute to a rollup. Everything
// else on the feed (creation, entry edits, submission) leaves aggregates
// untouched because draft and submitted sheets never contribute.
var recomputeActions = map[string]struct{}{
	"sheet_approved":  {},
	"sheet_certified": {},
	"sheet_rejected":  {},
}

// RecomputeConsumer keeps derived sheets fresh by reacting to sheet
// lifecycle events from the collation feed.
type RecomputeConsumer struct {
	Subscriber    ports.EventSubscriber
	Service       application.Service
	ConsumerGroup string
	Logger        *slog.Logger
}

// Start subscribes the engine to the collation feed.
func (c RecomputeConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultRecomputeCG
	}
	logger.Info("recompute consumer starting subscription",
		"event", "collation_recompute_consumer_starting",
		"module", "results-collation/aggregation-engine",
		"layer", "worker",
		"topic", collationFeedTopic,
		"consumer_group", group,
	)
	if err := c.Subscriber.Subscribe(ctx, collationFeedTopic, group, c.handleFeedEvent); err != nil {
		logger.Error("recompute consumer subscribe failed",
			"event", "collation_recompute_consumer_subscribe_failed",
			"module", "results-collation/aggregation-engine",
			"layer", "worker",
			"topic", collationFeedTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("recompute consumer subscription active",
		"event", "collation_recompute_consumer_started",
		"module", "results-collation/aggregation-engine",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c RecomputeConsumer) handleFeedEvent(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload struct {
		Action     string `json:"action"`
		ElectionID string `json:"election_id"`
		ScopeID    string `json:"scope_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("collation feed payload decode failed",
			"event", "collation_recompute_decode_failed",
			"module", "results-collation/aggregation-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if _, relevant := recomputeActions[strings.TrimSpace(payload.Action)]; !relevant {
		logger.Debug("collation feed event skipped",
			"event", "collation_recompute_skipped",
			"module", "results-collation/aggregation-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"action", payload.Action,
		)
		return nil
	}

	// Recompute is idempotent, so replays of the same event are harmless
	// and no dedupe gate is needed here.
	if err := c.Service.RecomputeAncestors(ctx, payload.ElectionID, payload.ScopeID); err != nil {
		logger.Error("ancestor recompute failed",
			"event", "collation_recompute_failed",
			"module", "results-collation/aggregation-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"election_id", payload.ElectionID,
			"scope_id", payload.ScopeID,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("collation feed event consumed",
		"event", "collation_recompute_consumed",
		"module", "results-collation/aggregation-engine",
		"layer", "worker",
		"event_id", event.EventID,
		"action", payload.Action,
		"election_id", payload.ElectionID,
		"scope_id", payload.ScopeID,
	)
	return nil
}
