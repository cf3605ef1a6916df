package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// Order is the immutable record created when a checkout session submits.
// Amounts and the discount breakdown are snapshots; later catalog edits
// never change them.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index"`
	StoreID           uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	CartID            uuid.UUID               `gorm:"column:cart_id;type:uuid;not null"`
	CheckoutSessionID uuid.UUID               `gorm:"column:checkout_session_id;type:uuid;not null"`
	Status            enums.OrderStatus       `gorm:"column:status;not null;default:'pending'"`
	Currency          enums.Currency          `gorm:"column:currency;not null;default:'USD'"`
	SubtotalCents     int64                   `gorm:"column:subtotal_cents;not null"`
	DiscountCents     int64                   `gorm:"column:discount_cents;not null;default:0"`
	ShippingCents     int64                   `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents        int64                   `gorm:"column:total_cents;not null"`
	ShippingAddress   types.Address           `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	ShippingSelection types.ShippingSelection `gorm:"column:shipping_selection;type:jsonb;serializer:json;not null"`
	DiscountBreakdown types.DiscountBreakdown `gorm:"column:discount_breakdown;type:jsonb;serializer:json"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt            *time.Time              `gorm:"column:paid_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one cart line at submit time.
type OrderItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID         uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName       string    `gorm:"column:product_name;not null"`
	VariantName       string    `gorm:"column:variant_name;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	UnitPriceCents    int64     `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int64     `gorm:"column:line_subtotal_cents;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
