package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// Discount is the catalog envelope shared by all four discount kinds.
// PRODUCT and BUY_ONE_GET_ONE rows link to variants via DiscountProduct;
// BuyQuantity/GetQuantity are only meaningful for BUY_ONE_GET_ONE.
type Discount struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	Name          string                  `gorm:"column:name;not null"`
	Type          enums.DiscountType      `gorm:"column:type;not null"`
	ValueType     enums.DiscountValueType `gorm:"column:value_type;not null"`
	Value         int64                   `gorm:"column:value;not null;default:0"`
	MaxDiscount   *int64                  `gorm:"column:max_discount_cents"`
	MinPurchase   *int64                  `gorm:"column:min_purchase_cents"`
	BuyQuantity   *int                    `gorm:"column:buy_quantity"`
	GetQuantity   *int                    `gorm:"column:get_quantity"`
	IsActive      bool                    `gorm:"column:is_active;not null;default:true"`
	StartsAt      *time.Time              `gorm:"column:starts_at"`
	EndsAt        *time.Time              `gorm:"column:ends_at"`
	Products      []DiscountProduct       `gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
	SortOrder     int                     `gorm:"column:sort_order;not null;default:0"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// DiscountProduct links a PRODUCT or BUY_ONE_GET_ONE discount to a variant.
type DiscountProduct struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;not null;index"`
	VariantID  uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
