package main

import (
	"context"
	"testing"
	"time"

	"github.com/hermiaTT/WanderingFoodCart/internal/events"
	"github.com/hermiaTT/WanderingFoodCart/internal/infra/storage"
)

type fakeEventRepo struct {
	appended []storage.StallEvent
}

func (r *fakeEventRepo) Append(ctx context.Context, event storage.StallEvent) error {
	r.appended = append(r.appended, event)
	return nil
}

func (r *fakeEventRepo) GetByStallID(ctx context.Context, stallID string) ([]storage.StallEvent, error) {
	return r.appended, nil
}

func (r *fakeEventRepo) GetByDay(ctx context.Context, stallID string, day int) ([]storage.StallEvent, error) {
	return nil, nil
}

func (r *fakeEventRepo) GetByEventType(ctx context.Context, stallID string, eventType string) ([]storage.StallEvent, error) {
	return nil, nil
}

func TestPersisterAdapterTranslatesEvents(t *testing.T) {
	repo := &fakeEventRepo{}
	adapter := &persisterAdapter{repo: repo}

	err := adapter.Append(events.StallEvent{
		ID:          "E1",
		Timestamp:   time.Now(),
		Type:        events.EventTypeOrderCompleted,
		CustomerID:  "C1",
		OrderID:     "O1",
		Payload:     events.OrderCompletedPayload{RecipeID: "mapo-tofu", QualityScore: 1.0, Income: 20.0},
		BusinessDay: 1,
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.appended))
	}

	got := repo.appended[0]
	if got.StallID != stallID || got.EventType != "ORDER_COMPLETED" || got.CustomerID != "C1" {
		t.Errorf("translation mangled the event: %+v", got)
	}
	if got.Payload["income"] != 20.0 {
		t.Errorf("payload did not carry over: %+v", got.Payload)
	}
}

func TestPersisterAdapterAcceptsEmptyPayload(t *testing.T) {
	repo := &fakeEventRepo{}
	adapter := &persisterAdapter{repo: repo}

	err := adapter.Append(events.StallEvent{ID: "E1", Type: events.EventTypeSessionStarted})
	if err != nil {
		t.Fatalf("payload-free events must store: %v", err)
	}
	if repo.appended[0].Payload != nil {
		t.Errorf("empty payload should map to nil, got %+v", repo.appended[0].Payload)
	}
}

func TestPersisterAdapterRejectsNonObjectPayload(t *testing.T) {
	repo := &fakeEventRepo{}
	adapter := &persisterAdapter{repo: repo}

	err := adapter.Append(events.StallEvent{
		ID:      "E1",
		Type:    events.EventTypeTimeTick,
		Payload: "not an object",
	})
	if err == nil {
		t.Fatal("a payload that cannot map to columns must be reported")
	}
	if len(repo.appended) != 0 {
		t.Error("a rejected event must not reach storage")
	}
}
