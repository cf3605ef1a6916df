package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/api/validators"
	addresssvc "github.com/grocemart/grocemart-backend/internal/addresses"
	cartsvc "github.com/grocemart/grocemart-backend/internal/cart"
	shippingsvc "github.com/grocemart/grocemart-backend/internal/shipping"
	storesvc "github.com/grocemart/grocemart-backend/internal/stores"
	"github.com/grocemart/grocemart-backend/pkg/logger"
)

type quoteRequest struct {
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
	AddressID uuid.UUID `json:"address_id" validate:"required"`
}

// ShippingQuote rates the active cart from the store's origin to a saved
// address across the courier table.
func ShippingQuote(quoter shippingsvc.Service, carts cartsvc.Service, addresses addresssvc.Service, stores storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := addresses.Record(r.Context(), customer, payload.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		origin, err := stores.Location(r.Context(), payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := carts.ActiveRecord(r.Context(), customer, payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := quoter.Quote(r.Context(), shippingsvc.QuoteRequest{
			CustomerID:  customer,
			AddressID:   address.ID,
			Origin:      origin,
			Destination: address.Address.Location(),
			WeightGrams: cart.EstimatedWeightGrams,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"options": options})
	}
}
