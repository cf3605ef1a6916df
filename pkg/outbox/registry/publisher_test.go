package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/config"
	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/outbox"
	"github.com/grocemart/grocemart-backend/pkg/outbox/payloads"
)

func newTestEventRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{
		OrdersTopic:   "orders-topic",
		CheckoutTopic: "checkout-topic",
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func mustEnvelope(t *testing.T, payload []byte) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func TestEventRegistryResolveSuccess(t *testing.T) {
	reg := newTestEventRegistry(t)

	orderID := uuid.New()
	payloadBytes, err := json.Marshal(payloads.OrderCreatedEvent{
		OrderID:           orderID,
		CheckoutSessionID: uuid.New(),
		CustomerID:        uuid.New(),
		StoreID:           uuid.New(),
		Currency:          "USD",
		SubtotalCents:     100000,
		TotalCents:        105000,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	resolved, err := reg.Resolve(models.OutboxEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Payload:       mustEnvelope(t, payloadBytes),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolved.Descriptor.Topic != "orders-topic" {
		t.Fatalf("unexpected topic %q", resolved.Descriptor.Topic)
	}
	if resolved.Descriptor.EventType != enums.EventOrderCreated {
		t.Fatalf("unexpected event type %s", resolved.Descriptor.EventType)
	}
	payload, ok := resolved.Payload.(*payloads.OrderCreatedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.OrderID != orderID || payload.TotalCents != 105000 {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if resolved.Envelope.EventID == "" {
		t.Fatal("envelope missing event id")
	}
	if resolved.Envelope.OccurredAt.IsZero() {
		t.Fatal("envelope missing occurred_at")
	}
}

func TestEventRegistryResolveRejectsBadRows(t *testing.T) {
	reg := newTestEventRegistry(t)

	tests := []struct {
		name  string
		event func(t *testing.T) models.OutboxEvent
	}{
		{
			name: "unknown event type",
			event: func(t *testing.T) models.OutboxEvent {
				return models.OutboxEvent{
					EventType:     enums.OutboxEventType("cart_abandoned"),
					AggregateType: enums.AggregateCheckoutSession,
					AggregateID:   uuid.New(),
					Payload:       mustEnvelope(t, []byte(`{"reason":"none"}`)),
				}
			},
		},
		{
			name: "aggregate mismatch",
			event: func(t *testing.T) models.OutboxEvent {
				return models.OutboxEvent{
					EventType:     enums.EventOrderCreated,
					AggregateType: enums.AggregateCheckoutSession,
					AggregateID:   uuid.New(),
					Payload:       mustEnvelope(t, []byte(`{}`)),
				}
			},
		},
		{
			name: "missing aggregate id",
			event: func(t *testing.T) models.OutboxEvent {
				return models.OutboxEvent{
					EventType:     enums.EventOrderCreated,
					AggregateType: enums.AggregateOrder,
					AggregateID:   uuid.Nil,
					Payload:       mustEnvelope(t, []byte(`{}`)),
				}
			},
		},
		{
			name: "null payload",
			event: func(t *testing.T) models.OutboxEvent {
				return models.OutboxEvent{
					EventType:     enums.EventOrderCreated,
					AggregateType: enums.AggregateOrder,
					AggregateID:   uuid.New(),
					Payload:       mustEnvelope(t, []byte("null")),
				}
			},
		},
		{
			name: "corrupt envelope",
			event: func(t *testing.T) models.OutboxEvent {
				return models.OutboxEvent{
					EventType:     enums.EventOrderCreated,
					AggregateType: enums.AggregateOrder,
					AggregateID:   uuid.New(),
					Payload:       json.RawMessage(`{not json`),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Resolve(tt.event(t))
			if err == nil {
				t.Fatal("expected error")
			}
			var nonRetry NonRetryableError
			if !errors.As(err, &nonRetry) {
				t.Fatalf("expected non-retryable error, got %T", err)
			}
		})
	}
}
