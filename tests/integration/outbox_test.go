package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/infrastructure/eventpublisher"
	"github.com/hewad/sarrafbook/internal/usecase"
	"github.com/hewad/sarrafbook/tests/testutil"
)

func TestOutboxEventCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.reset(ctx)
	env.seedStandardCurrencies(ctx)

	customer := env.DB.CreateTestEntity(ctx, "Karim", domain.CategoryCustomer)

	record, err := env.LedgerUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  domain.OwnerID,
		TakerID:  customer.ID,
		Amount:   dec("100"),
		Currency: baseCurrency,
	})
	if err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	events, err := env.OutboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}

	if len(events) == 0 {
		t.Fatal("expected at least one unpublished event")
	}

	var created *domain.OutboxEvent
	for _, event := range events {
		if event.EventType == domain.EventTypeTransactionCreated && event.AggregateID == record.ID {
			created = event
			break
		}
	}

	if created == nil {
		t.Fatal("transaction created event not found in outbox")
	}

	if created.AggregateType != domain.AggregateTypeTransaction {
		t.Errorf("expected aggregate type %s, got %s", domain.AggregateTypeTransaction, created.AggregateType)
	}

	if created.Published {
		t.Error("event should not be published yet")
	}

	if created.Payload == nil {
		t.Fatal("event payload is nil")
	}

	if created.Payload["transaction_id"] != record.ID {
		t.Errorf("payload transaction_id mismatch: expected %s, got %v", record.ID, created.Payload["transaction_id"])
	}

	if created.Payload["giver_id"] != domain.OwnerID {
		t.Errorf("payload giver_id mismatch")
	}

	if created.Payload["taker_id"] != customer.ID {
		t.Errorf("payload taker_id mismatch")
	}
}

func TestOutboxRejectsUndecodablePayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.reset(ctx)

	// Valid JSONB, but not the object shape events carry.
	_, err := env.DB.Pool.Exec(ctx, `
		INSERT INTO outbox_events (id, aggregate_id, aggregate_type, event_type, payload)
		VALUES ($1, $2, $3, $4, '[1,2,3]'::jsonb)`,
		testutil.GenerateID(), "tx-1", domain.AggregateTypeTransaction, domain.EventTypeTransactionCreated,
	)
	if err != nil {
		t.Fatalf("failed to insert event row: %v", err)
	}

	if _, err := env.OutboxRepo.GetUnpublished(ctx, 10); err == nil {
		t.Fatal("expected an error for a payload that does not decode, got none")
	}
}

func TestEventPublisher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.reset(ctx)
	env.seedStandardCurrencies(ctx)

	customer := env.DB.CreateTestEntity(ctx, "Karim", domain.CategoryCustomer)

	if _, err := env.LedgerUC.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  domain.OwnerID,
		TakerID:  customer.ID,
		Amount:   dec("100"),
		Currency: baseCurrency,
	}); err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	recorder := &recordingPublisher{}
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: env.OutboxRepo,
		Publisher:  recorder,
		BatchSize:  10,
	})

	publisherCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	go publisher.Start(publisherCtx)

	time.Sleep(100 * time.Millisecond)

	published := recorder.Published()
	if len(published) == 0 {
		t.Fatal("no events were published")
	}

	unpublished, err := env.OutboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}

	if len(unpublished) > 0 {
		t.Errorf("expected 0 unpublished events after publishing, got %d", len(unpublished))
	}
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*domain.OutboxEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Published() []*domain.OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.OutboxEvent{}, p.published...)
}
