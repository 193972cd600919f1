package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	resultsheetservice "tally/contexts/results-collation/result-sheet-service"
	"tally/contexts/results-collation/result-sheet-service/ports"
	httptransport "tally/contexts/results-collation/result-sheet-service/transport/http"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestFeedRelayPublishesAndMarks(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	sheet := createStationSheet(t, module)
	recordBaseline(t, module, sheet.SheetID)
	if _, err := module.Handler.SubmitHandler(ctx, collationActor(), sheet.SheetID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := resultsheetservice.NewFeedRelay(module.Store, publisher, module.Store, nil)
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	for _, topic := range publisher.topics {
		if topic != "collation.feed" {
			t.Fatalf("expected collation.feed topic, got %s", topic)
		}
	}
	if publisher.events[0].EventType != "collation.feed.sheet_created" {
		t.Fatalf("expected sheet_created first, got %s", publisher.events[0].EventType)
	}
	if publisher.events[1].EventType != "collation.feed.sheet_submitted" {
		t.Fatalf("expected sheet_submitted second, got %s", publisher.events[1].EventType)
	}
	if publisher.events[0].PartitionKey != "station-1" {
		t.Fatalf("expected scope partition key, got %s", publisher.events[0].PartitionKey)
	}

	var payload struct {
		Action     string `json:"action"`
		ElectionID string `json:"election_id"`
		ScopeID    string `json:"scope_id"`
	}
	if err := json.Unmarshal(publisher.events[1].Data, &payload); err != nil {
		t.Fatalf("decode envelope data failed: %v", err)
	}
	if payload.Action != "sheet_submitted" || payload.ElectionID != "election-1" || payload.ScopeID != "station-1" {
		t.Fatalf("unexpected envelope payload: %+v", payload)
	}

	// Published rows do not relay twice.
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected no re-publish, got %d events", len(publisher.events))
	}
}

func TestFeedRelayStopsOnPublishFailure(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	createStationSheet(t, module)

	failing := &capturingPublisher{fail: true}
	relay := resultsheetservice.NewFeedRelay(module.Store, failing, module.Store, nil)
	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected relay to surface publish failure")
	}

	// The row stays unpublished and a healthy broker picks it up later.
	recovered := &capturingPublisher{}
	relay = resultsheetservice.NewFeedRelay(module.Store, recovered, module.Store, nil)
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay retry failed: %v", err)
	}
	if len(recovered.events) != 1 {
		t.Fatalf("expected the pending event to publish on retry, got %d", len(recovered.events))
	}
}

func TestFeedRelayRespectsBatchSize(t *testing.T) {
	module := resultsheetservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	for _, scope := range []string{"station-1", "station-2", "station-3"} {
		if _, err := module.Handler.CreateSheetHandler(ctx, collationActor(), httptransport.CreateSheetRequest{
			ElectionID: "election-1",
			ScopeID:    scope,
			ScopeLevel: "station",
		}); err != nil {
			t.Fatalf("create sheet for %s failed: %v", scope, err)
		}
	}

	publisher := &capturingPublisher{}
	relay := resultsheetservice.NewFeedRelay(module.Store, publisher, module.Store, nil)
	relay.BatchSize = 2
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(publisher.events))
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 3 {
		t.Fatalf("expected remaining event on next cycle, got %d", len(publisher.events))
	}
}
