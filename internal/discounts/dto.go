package discounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// CreateDiscountInput captures the fields a vendor supplies for a new
// catalog entry. Variant links only apply to PRODUCT and BUY_ONE_GET_ONE.
type CreateDiscountInput struct {
	Name        string
	Type        enums.DiscountType
	ValueType   enums.DiscountValueType
	Value       int64
	MaxDiscount *int64
	MinPurchase *int64
	BuyQuantity *int
	GetQuantity *int
	IsActive    *bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	VariantIDs  []uuid.UUID
}

// UpdateDiscountInput carries partial envelope updates; nil fields are
// left untouched. VariantIDs, when present, replaces the link set.
type UpdateDiscountInput struct {
	Name        *string
	Value       *int64
	MaxDiscount *int64
	MinPurchase *int64
	BuyQuantity *int
	GetQuantity *int
	IsActive    *bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	VariantIDs  *[]uuid.UUID
}

// DiscountDTO is the catalog envelope returned to clients.
type DiscountDTO struct {
	ID          uuid.UUID               `json:"id"`
	StoreID     uuid.UUID               `json:"store_id"`
	Name        string                  `json:"name"`
	Type        enums.DiscountType      `json:"type"`
	ValueType   enums.DiscountValueType `json:"value_type"`
	Value       int64                   `json:"value"`
	MaxDiscount *int64                  `json:"max_discount_cents,omitempty"`
	MinPurchase *int64                  `json:"min_purchase_cents,omitempty"`
	BuyQuantity *int                    `json:"buy_quantity,omitempty"`
	GetQuantity *int                    `json:"get_quantity,omitempty"`
	IsActive    bool                    `json:"is_active"`
	StartsAt    *time.Time              `json:"starts_at,omitempty"`
	EndsAt      *time.Time              `json:"ends_at,omitempty"`
	VariantIDs  []uuid.UUID             `json:"variant_ids,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// AppliedDiscountDTO is one composed contribution returned from preview.
type AppliedDiscountDTO struct {
	DiscountDTO
	AppliedCents int64 `json:"applied_cents"`
	Enabled      bool  `json:"enabled"`
}

func toDTO(d models.Discount) DiscountDTO {
	dto := DiscountDTO{
		ID:          d.ID,
		StoreID:     d.StoreID,
		Name:        d.Name,
		Type:        d.Type,
		ValueType:   d.ValueType,
		Value:       d.Value,
		MaxDiscount: d.MaxDiscount,
		MinPurchase: d.MinPurchase,
		BuyQuantity: d.BuyQuantity,
		GetQuantity: d.GetQuantity,
		IsActive:    d.IsActive,
		StartsAt:    d.StartsAt,
		EndsAt:      d.EndsAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, link := range d.Products {
		dto.VariantIDs = append(dto.VariantIDs, link.VariantID)
	}
	return dto
}

// ToAppliedDTO maps an engine contribution onto the client shape.
func ToAppliedDTO(entry Applied, enabled bool) AppliedDiscountDTO {
	return AppliedDiscountDTO{
		DiscountDTO:  toDTO(entry.Discount),
		AppliedCents: entry.AppliedCents,
		Enabled:      enabled,
	}
}
