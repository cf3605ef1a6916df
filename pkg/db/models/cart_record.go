package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// CartRecord is the active cart a customer holds against a store. It flips
// to converted exactly once, inside the submit transaction.
type CartRecord struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID            uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index"`
	StoreID               uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	Status                enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Currency              enums.Currency   `gorm:"column:currency;not null;default:'USD'"`
	SubtotalCents         int64            `gorm:"column:subtotal_cents;not null;default:0"`
	TotalQuantity         int              `gorm:"column:total_quantity;not null;default:0"`
	EstimatedWeightGrams  int64            `gorm:"column:estimated_weight_grams;not null;default:0"`
	ConvertedAt           *time.Time       `gorm:"column:converted_at"`
	Items                 []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem persists a variant-level line tied to a CartRecord.
type CartItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	VariantID         uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	UnitPriceCents    int64     `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int64     `gorm:"column:line_subtotal_cents;not null"`
	WeightGrams       int64     `gorm:"column:weight_grams;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
