package unit

import (
	"context"
	"encoding/json"
	"testing"

	aggregationengine "tally/contexts/results-collation/aggregation-engine"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

type manualSubscriber struct {
	topic   string
	group   string
	handler func(context.Context, ports.EventEnvelope) error
}

func (s *manualSubscriber) Subscribe(
	_ context.Context,
	topic string,
	group string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	s.topic = topic
	s.group = group
	s.handler = handler
	return nil
}

func feedEnvelope(t *testing.T, action string, scopeID string) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"action":      action,
		"election_id": "election-1",
		"scope_id":    scopeID,
	})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return ports.EventEnvelope{
		EventID:   "event-" + action,
		EventType: "collation.feed." + action,
		Data:      data,
	}
}

func TestRecomputeConsumerRefreshesAncestors(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	subscriber := &manualSubscriber{}
	consumer := module.NewRecomputeConsumer(subscriber, "", nil)
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if subscriber.topic != "collation.feed" {
		t.Fatalf("expected collation.feed subscription, got %s", subscriber.topic)
	}
	if subscriber.group != "aggregation-engine-recompute-cg" {
		t.Fatalf("expected default consumer group, got %s", subscriber.group)
	}

	if err := subscriber.handler(ctx, feedEnvelope(t, "sheet_approved", "station-1")); err != nil {
		t.Fatalf("handle approved event failed: %v", err)
	}
	record, ok := module.Store.DerivedSheet("election-1", "area-1")
	if !ok {
		t.Fatalf("expected ancestor rollup after approval event")
	}
	if record.Aggregate.Totals.VotesCast != 355 {
		t.Fatalf("unexpected ancestor totals: %+v", record.Aggregate.Totals)
	}
}

func TestRecomputeConsumerSkipsIrrelevantActions(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	subscriber := &manualSubscriber{}
	consumer := module.NewRecomputeConsumer(subscriber, "", nil)
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	// Draft-side activity never moves aggregates: no rollup should appear.
	for _, action := range []string{"sheet_created", "sheet_submitted", "sheet_verified"} {
		if err := subscriber.handler(ctx, feedEnvelope(t, action, "station-1")); err != nil {
			t.Fatalf("handle %s failed: %v", action, err)
		}
	}
	if _, ok := module.Store.DerivedSheet("election-1", "area-1"); ok {
		t.Fatalf("irrelevant actions must not trigger recompute")
	}

	if err := subscriber.handler(ctx, feedEnvelope(t, "sheet_rejected", "station-1")); err != nil {
		t.Fatalf("handle rejection failed: %v", err)
	}
	if _, ok := module.Store.DerivedSheet("election-1", "area-1"); !ok {
		t.Fatalf("rejection must refresh ancestor rollups")
	}
}

func TestRecomputeConsumerIsIdempotent(t *testing.T) {
	module := aggregationengine.NewInMemoryModule(nil)
	seedAreaWithStations(module.Store)
	ctx := context.Background()

	subscriber := &manualSubscriber{}
	consumer := module.NewRecomputeConsumer(subscriber, "", nil)
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	event := feedEnvelope(t, "sheet_certified", "station-2")
	if err := subscriber.handler(ctx, event); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	first, _ := module.Store.DerivedSheet("election-1", "area-1")
	if err := subscriber.handler(ctx, event); err != nil {
		t.Fatalf("replayed delivery failed: %v", err)
	}
	second, _ := module.Store.DerivedSheet("election-1", "area-1")
	if first.Aggregate.Totals != second.Aggregate.Totals {
		t.Fatalf("replay changed the rollup: %+v vs %+v", first.Aggregate.Totals, second.Aggregate.Totals)
	}
}
