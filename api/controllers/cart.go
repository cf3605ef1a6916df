package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/api/validators"
	cartsvc "github.com/grocemart/grocemart-backend/internal/cart"
	"github.com/grocemart/grocemart-backend/pkg/logger"
)

// CartGet returns the customer's active cart for a store.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := storeIDFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetActive(r.Context(), customer, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type replaceCartRequest struct {
	StoreID uuid.UUID         `json:"store_id" validate:"required"`
	Items   []cartItemPayload `json:"items" validate:"dive"`
}

type cartItemPayload struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartReplace replaces the cart's item set; prices are recomputed server-side.
func CartReplace(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cartsvc.ItemInput, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = cartsvc.ItemInput{VariantID: item.VariantID, Quantity: item.Quantity}
		}

		cart, err := svc.ReplaceItems(r.Context(), customer, payload.StoreID, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}
