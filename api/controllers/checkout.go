package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/api/validators"
	checkoutsvc "github.com/grocemart/grocemart-backend/internal/checkout"
	"github.com/grocemart/grocemart-backend/pkg/logger"
)

// CheckoutPreview composes the session against the current cart state.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		preview, err := svc.Preview(r.Context(), customer, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type selectAddressRequest struct {
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
	AddressID uuid.UUID `json:"address_id" validate:"required"`
}

// CheckoutSelectAddress pins a saved address to the session.
func CheckoutSelectAddress(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.SelectAddress(r.Context(), customer, payload.StoreID, payload.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type selectShippingRequest struct {
	StoreID      uuid.UUID `json:"store_id" validate:"required"`
	Courier      string    `json:"courier" validate:"required"`
	ServiceLevel string    `json:"service_level" validate:"required"`
	Description  string    `json:"description"`
	CostCents    int64     `json:"cost_cents" validate:"min=0"`
	ETD          string    `json:"etd"`
}

// CheckoutSelectShipping locks a quoted rate into the session.
func CheckoutSelectShipping(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectShippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.SelectShipping(r.Context(), customer, payload.StoreID, checkoutsvc.ShippingInput{
			Courier:      payload.Courier,
			ServiceLevel: payload.ServiceLevel,
			Description:  payload.Description,
			CostCents:    payload.CostCents,
			ETD:          payload.ETD,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type toggleDiscountRequest struct {
	StoreID    uuid.UUID `json:"store_id" validate:"required"`
	DiscountID uuid.UUID `json:"discount_id" validate:"required"`
	Enabled    *bool     `json:"enabled" validate:"required"`
}

// CheckoutToggleDiscount flips one composed discount on or off.
func CheckoutToggleDiscount(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload toggleDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.ToggleDiscount(r.Context(), customer, payload.StoreID, payload.DiscountID, *payload.Enabled)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type submitCheckoutRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}

// CheckoutSubmit converts the session into a paid order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), customer, payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
