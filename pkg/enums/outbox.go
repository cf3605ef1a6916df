package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder           OutboxAggregateType = "order"
	AggregateCheckoutSession OutboxAggregateType = "checkout_session"
	AggregateStore           OutboxAggregateType = "store"
)

// String implements fmt.Stringer.
func (a OutboxAggregateType) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	switch a {
	case AggregateOrder, AggregateCheckoutSession, AggregateStore:
		return true
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	aggregate := OutboxAggregateType(value)
	if !aggregate.IsValid() {
		return "", fmt.Errorf("invalid aggregate type %q", value)
	}
	return aggregate, nil
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderCreated      OutboxEventType = "order_created"
	EventCheckoutCompleted OutboxEventType = "checkout_completed"
	EventStoreUpdated      OutboxEventType = "store_updated"
)

// String implements fmt.Stringer.
func (e OutboxEventType) String() string {
	return string(e)
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	switch e {
	case EventOrderCreated, EventCheckoutCompleted, EventStoreUpdated:
		return true
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	event := OutboxEventType(value)
	if !event.IsValid() {
		return "", fmt.Errorf("invalid event type %q", value)
	}
	return event, nil
}
