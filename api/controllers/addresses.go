package controllers

import (
	"net/http"
	"strings"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/api/validators"
	addresssvc "github.com/grocemart/grocemart-backend/internal/addresses"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

// AddressList returns the customer's saved addresses.
func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), customer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AddressGet returns one saved address.
func AddressGet(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Get(r.Context(), customer, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

type createAddressRequest struct {
	Label     string        `json:"label" validate:"required,max=40"`
	Recipient string        `json:"recipient" validate:"required"`
	Phone     string        `json:"phone" validate:"required"`
	Address   types.Address `json:"address" validate:"required"`
	IsPrimary bool          `json:"is_primary"`
}

// AddressCreate saves a new address for the customer.
func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Create(r.Context(), customer, addresssvc.CreateAddressInput{
			Label:     payload.Label,
			Recipient: payload.Recipient,
			Phone:     payload.Phone,
			Address:   payload.Address,
			IsPrimary: payload.IsPrimary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

type updateAddressRequest struct {
	Label     *string        `json:"label"`
	Recipient *string        `json:"recipient"`
	Phone     *string        `json:"phone"`
	Address   *types.Address `json:"address"`
	IsPrimary *bool          `json:"is_primary"`
}

// AddressUpdate patches a saved address; nil fields are untouched.
func AddressUpdate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Update(r.Context(), customer, id, addresssvc.UpdateAddressInput{
			Label:     payload.Label,
			Recipient: payload.Recipient,
			Phone:     payload.Phone,
			Address:   payload.Address,
			IsPrimary: payload.IsPrimary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressDelete removes a saved address.
func AddressDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), customer, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AddressSuggest proxies autocomplete to the places provider.
func AddressSuggest(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := strings.TrimSpace(r.URL.Query().Get("input"))
		if input == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "input query parameter required"))
			return
		}

		suggestions, err := svc.Suggest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

// AddressResolve turns a picked suggestion into a canonical location.
func AddressResolve(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		placeID := strings.TrimSpace(r.URL.Query().Get("place_id"))
		if placeID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "place_id query parameter required"))
			return
		}

		resolved, err := svc.Resolve(r.Context(), placeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}
