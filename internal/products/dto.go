package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
)

// CreateProductInput is the vendor payload for a new listing.
type CreateProductInput struct {
	Name        string
	Description *string
	Category    string
	Variants    []VariantInput
}

// VariantInput carries one sellable unit inside a create/update call.
type VariantInput struct {
	SKU         string
	Name        string
	PriceCents  int64
	WeightGrams int64
	StockQty    int
}

// UpdateProductInput carries partial updates; nil fields are untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	IsActive    *bool
}

// ProductDTO is the client-facing listing shape.
type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	StoreID     uuid.UUID    `json:"store_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Category    string       `json:"category"`
	IsActive    bool         `json:"is_active"`
	Variants    []VariantDTO `json:"variants"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// VariantDTO is the client-facing sellable unit shape.
type VariantDTO struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	WeightGrams int64     `json:"weight_grams"`
	StockQty    int       `json:"stock_qty"`
	IsActive    bool      `json:"is_active"`
}

// Page wraps a browse result with its next cursor.
type Page struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func toDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsActive:    p.IsActive,
		Variants:    make([]VariantDTO, 0, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:          v.ID,
			SKU:         v.SKU,
			Name:        v.Name,
			PriceCents:  v.PriceCents,
			WeightGrams: v.WeightGrams,
			StockQty:    v.StockQty,
			IsActive:    v.IsActive,
		})
	}
	return dto
}
