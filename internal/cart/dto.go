package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// ItemInput is one requested line in a replace-items call. Prices are never
// trusted from the client; the service reprices from the variant rows.
type ItemInput struct {
	VariantID uuid.UUID
	Quantity  int
}

// ItemDTO is the client-facing cart line.
type ItemDTO struct {
	ID                uuid.UUID `json:"id"`
	VariantID         uuid.UUID `json:"variant_id"`
	ProductID         uuid.UUID `json:"product_id"`
	Quantity          int       `json:"quantity"`
	UnitPriceCents    int64     `json:"unit_price_cents"`
	LineSubtotalCents int64     `json:"line_subtotal_cents"`
	WeightGrams       int64     `json:"weight_grams"`
}

// CartDTO is the client-facing cart with its derived summary.
type CartDTO struct {
	ID                   uuid.UUID        `json:"id"`
	StoreID              uuid.UUID        `json:"store_id"`
	Status               enums.CartStatus `json:"status"`
	Currency             enums.Currency   `json:"currency"`
	Items                []ItemDTO        `json:"items"`
	SubtotalCents        int64            `json:"subtotal_cents"`
	TotalQuantity        int              `json:"total_quantity"`
	EstimatedWeightGrams int64            `json:"estimated_weight_grams"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func toDTO(cart models.CartRecord) CartDTO {
	dto := CartDTO{
		ID:                   cart.ID,
		StoreID:              cart.StoreID,
		Status:               cart.Status,
		Currency:             cart.Currency,
		Items:                make([]ItemDTO, 0, len(cart.Items)),
		SubtotalCents:        cart.SubtotalCents,
		TotalQuantity:        cart.TotalQuantity,
		EstimatedWeightGrams: cart.EstimatedWeightGrams,
		UpdatedAt:            cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:                item.ID,
			VariantID:         item.VariantID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.LineSubtotalCents,
			WeightGrams:       item.WeightGrams,
		})
	}
	return dto
}
