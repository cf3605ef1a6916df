package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/types"
)

// OrderCreatedEvent signals that a checkout submission produced an order.
type OrderCreatedEvent struct {
	OrderID           uuid.UUID               `json:"order_id"`
	CheckoutSessionID uuid.UUID               `json:"checkout_session_id"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	StoreID           uuid.UUID               `json:"store_id"`
	Currency          string                  `json:"currency"`
	SubtotalCents     int64                   `json:"subtotal_cents"`
	DiscountCents     int64                   `json:"discount_cents"`
	ShippingCents     int64                   `json:"shipping_cents"`
	TotalCents        int64                   `json:"total_cents"`
	Discounts         types.DiscountBreakdown `json:"discounts,omitempty"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
}

// CheckoutCompletedEvent marks a session as converted for analytics consumers.
type CheckoutCompletedEvent struct {
	CheckoutSessionID uuid.UUID `json:"checkout_session_id"`
	CartID            uuid.UUID `json:"cart_id"`
	CustomerID        uuid.UUID `json:"customer_id"`
	OrderID           uuid.UUID `json:"order_id"`
	CompletedAt       time.Time `json:"completed_at"`
}

// StoreUpdatedEvent tells downstream caches a store profile changed.
type StoreUpdatedEvent struct {
	StoreID        uuid.UUID `json:"store_id"`
	Slug           string    `json:"slug"`
	AddressChanged bool      `json:"address_changed"`
}
