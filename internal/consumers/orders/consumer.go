package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/outbox/payloads"
	"github.com/grocemart/grocemart-backend/pkg/outbox/registry"
)

const ordersConsumerName = "orders"

// counterRetention keeps daily dashboard counters around long enough for
// month-over-month comparisons before Redis reclaims them.
const counterRetention = 45 * 24 * time.Hour

type counterStore interface {
	IncrByWithTTL(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

type payloadDecoder interface {
	Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (interface{}, error)
}

// Consumer maintains per-store order counters in Redis from order events.
type Consumer struct {
	counters counterStore
	decoders payloadDecoder
	logg     *logger.Logger
}

// NewConsumer builds a new orders consumer.
func NewConsumer(counters counterStore, decoders payloadDecoder, logg *logger.Logger) (*Consumer, error) {
	if counters == nil {
		return nil, fmt.Errorf("counter store required")
	}
	if decoders == nil {
		return nil, fmt.Errorf("payload decoders required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{counters: counters, decoders: decoders, logg: logg}, nil
}

// Decoders returns a registry with every payload version this consumer understands.
func Decoders() *registry.DecoderRegistry {
	decoders := registry.NewDecoderRegistry()
	decoders.Register(enums.EventOrderCreated, 1, func(payload json.RawMessage) (interface{}, error) {
		var data payloads.OrderCreatedEvent
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("decode order_created payload: %w", err)
		}
		return &data, nil
	})
	return decoders
}

// Handle updates the store's daily order and revenue counters for the event.
func (c *Consumer) Handle(ctx context.Context, envelope Envelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": envelope.EventType,
	})

	if envelope.EventType != enums.EventOrderCreated {
		c.logg.Info(logCtx, "event not handled by orders consumer")
		return nil
	}

	decoded, err := c.decoders.Decode(envelope.EventType, envelope.Version, envelope.Payload)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	data, ok := decoded.(*payloads.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", decoded)
	}
	if data.StoreID == uuid.Nil {
		return fmt.Errorf("store id missing")
	}

	day := envelope.OccurredAt.UTC().Format("2006-01-02")
	scope := "store:" + data.StoreID.String()

	ordersKey := c.counters.CounterKey(scope + ":orders:" + day)
	if _, err := c.counters.IncrByWithTTL(ctx, ordersKey, 1, counterRetention); err != nil {
		return fmt.Errorf("increment order counter: %w", err)
	}
	revenueKey := c.counters.CounterKey(scope + ":revenue_cents:" + day)
	if _, err := c.counters.IncrByWithTTL(ctx, revenueKey, data.TotalCents, counterRetention); err != nil {
		return fmt.Errorf("increment revenue counter: %w", err)
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"store_id":    data.StoreID,
		"total_cents": data.TotalCents,
	}), "store order counters updated")
	return nil
}
