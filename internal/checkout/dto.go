package checkout

import (
	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/internal/discounts"
	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// ShippingInput is the quote a customer locks in for the session.
type ShippingInput struct {
	Courier      string
	ServiceLevel string
	Description  string
	CostCents    int64
	ETD          string
}

// PreviewDTO is the composed checkout state returned to the client on every
// checkout mutation.
type PreviewDTO struct {
	SessionID         uuid.UUID                      `json:"session_id"`
	CartID            uuid.UUID                      `json:"cart_id"`
	StoreID           uuid.UUID                      `json:"store_id"`
	Status            string                         `json:"status"`
	SelectedAddressID *uuid.UUID                     `json:"selected_address_id,omitempty"`
	SelectedShipping  *types.ShippingSelection       `json:"selected_shipping,omitempty"`
	Discounts         []discounts.AppliedDiscountDTO `json:"discounts"`
	SubtotalCents     int64                          `json:"subtotal_cents"`
	DiscountCents     int64                          `json:"discount_cents"`
	ShippingCents     int64                          `json:"shipping_cents"`
	TotalCents        int64                          `json:"total_cents"`
}

func toPreviewDTO(session *models.CheckoutSession, applied []discounts.AppliedDiscountDTO) *PreviewDTO {
	return &PreviewDTO{
		SessionID:         session.ID,
		CartID:            session.CartID,
		StoreID:           session.StoreID,
		Status:            string(session.Status),
		SelectedAddressID: session.SelectedAddressID,
		SelectedShipping:  session.SelectedShipping,
		Discounts:         applied,
		SubtotalCents:     session.SubtotalCents,
		DiscountCents:     session.DiscountCents,
		ShippingCents:     session.ShippingCents,
		TotalCents:        session.TotalCents,
	}
}
