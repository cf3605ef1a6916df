package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// OrderItemDTO is one snapshotted line on an order.
type OrderItemDTO struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	VariantID         uuid.UUID `json:"variant_id"`
	ProductName       string    `json:"product_name"`
	VariantName       string    `json:"variant_name"`
	Quantity          int       `json:"quantity"`
	UnitPriceCents    int64     `json:"unit_price_cents"`
	LineSubtotalCents int64     `json:"line_subtotal_cents"`
}

// OrderDTO is the client-facing order record.
type OrderDTO struct {
	ID                uuid.UUID               `json:"id"`
	CheckoutSessionID uuid.UUID               `json:"checkout_session_id"`
	StoreID           uuid.UUID               `json:"store_id"`
	Status            string                  `json:"status"`
	Currency          string                  `json:"currency"`
	SubtotalCents     int64                   `json:"subtotal_cents"`
	DiscountCents     int64                   `json:"discount_cents"`
	ShippingCents     int64                   `json:"shipping_cents"`
	TotalCents        int64                   `json:"total_cents"`
	ShippingAddress   types.Address           `json:"shipping_address"`
	ShippingSelection types.ShippingSelection `json:"shipping_selection"`
	DiscountBreakdown types.DiscountBreakdown `json:"discount_breakdown"`
	Items             []OrderItemDTO          `json:"items"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
}

// Page wraps a list response with its next cursor.
type Page struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToDTO maps a persisted order to its client shape.
func ToDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:                item.ID,
			ProductID:         item.ProductID,
			VariantID:         item.VariantID,
			ProductName:       item.ProductName,
			VariantName:       item.VariantName,
			Quantity:          item.Quantity,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.LineSubtotalCents,
		})
	}
	return OrderDTO{
		ID:                order.ID,
		CheckoutSessionID: order.CheckoutSessionID,
		StoreID:           order.StoreID,
		Status:            string(order.Status),
		Currency:          string(order.Currency),
		SubtotalCents:     order.SubtotalCents,
		DiscountCents:     order.DiscountCents,
		ShippingCents:     order.ShippingCents,
		TotalCents:        order.TotalCents,
		ShippingAddress:   order.ShippingAddress,
		ShippingSelection: order.ShippingSelection,
		DiscountBreakdown: order.DiscountBreakdown,
		Items:             items,
		PaidAt:            order.PaidAt,
		CreatedAt:         order.CreatedAt,
	}
}
