package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/grocemart/grocemart-backend/pkg/db/types"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// CheckoutSession tracks a customer's in-progress checkout against a cart.
// DiscountsInitialized guards the one-shot auto-enable of composed
// discounts: it flips true the first time composition produces entries and
// never resets, so later previews leave customer toggles alone.
type CheckoutSession struct {
	ID                   uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID           uuid.UUID                `gorm:"column:customer_id;type:uuid;not null;index"`
	CartID               uuid.UUID                `gorm:"column:cart_id;type:uuid;not null;index"`
	StoreID              uuid.UUID                `gorm:"column:store_id;type:uuid;not null"`
	Status               enums.CheckoutStatus     `gorm:"column:status;not null;default:'open'"`
	SelectedAddressID    *uuid.UUID               `gorm:"column:selected_address_id;type:uuid"`
	SelectedShipping     *types.ShippingSelection `gorm:"column:selected_shipping;type:jsonb;serializer:json"`
	EnabledDiscountIDs   dbtypes.UUIDArray        `gorm:"column:enabled_discount_ids;type:uuid[]"`
	DiscountsInitialized bool                     `gorm:"column:discounts_initialized;not null;default:false"`
	SubtotalCents        int64                    `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents        int64                    `gorm:"column:discount_cents;not null;default:0"`
	ShippingCents        int64                    `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents           int64                    `gorm:"column:total_cents;not null;default:0"`
	CompletedAt          *time.Time               `gorm:"column:completed_at"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
