package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/grocemart/grocemart-backend/api/responses"
	"github.com/grocemart/grocemart-backend/api/validators"
	discountsvc "github.com/grocemart/grocemart-backend/internal/discounts"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/logger"
)

// VendorDiscountList returns the store's full catalog, active or not.
func VendorDiscountList(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := vendorStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// VendorDiscountGet returns one catalog entry.
func VendorDiscountGet(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := vendorStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Get(r.Context(), store, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

type createDiscountRequest struct {
	Name        string      `json:"name" validate:"required,min=2,max=120"`
	Type        string      `json:"type" validate:"required"`
	ValueType   string      `json:"value_type" validate:"required"`
	Value       int64       `json:"value" validate:"required,min=1"`
	MaxDiscount *int64      `json:"max_discount_cents"`
	MinPurchase *int64      `json:"min_purchase_cents"`
	BuyQuantity *int        `json:"buy_quantity"`
	GetQuantity *int        `json:"get_quantity"`
	IsActive    *bool       `json:"is_active"`
	StartsAt    *time.Time  `json:"starts_at"`
	EndsAt      *time.Time  `json:"ends_at"`
	VariantIDs  []uuid.UUID `json:"variant_ids"`
}

func (p createDiscountRequest) toInput() (discountsvc.CreateDiscountInput, error) {
	kind, err := enums.ParseDiscountType(p.Type)
	if err != nil {
		return discountsvc.CreateDiscountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}
	valueType, err := enums.ParseDiscountValueType(p.ValueType)
	if err != nil {
		return discountsvc.CreateDiscountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid value type")
	}
	return discountsvc.CreateDiscountInput{
		Name:        p.Name,
		Type:        kind,
		ValueType:   valueType,
		Value:       p.Value,
		MaxDiscount: p.MaxDiscount,
		MinPurchase: p.MinPurchase,
		BuyQuantity: p.BuyQuantity,
		GetQuantity: p.GetQuantity,
		IsActive:    p.IsActive,
		StartsAt:    p.StartsAt,
		EndsAt:      p.EndsAt,
		VariantIDs:  p.VariantIDs,
	}, nil
}

// VendorDiscountCreate adds a catalog entry for one of the four kinds.
func VendorDiscountCreate(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := vendorStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Create(r.Context(), store, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, discount)
	}
}

type updateDiscountRequest struct {
	Name        *string      `json:"name"`
	Value       *int64       `json:"value"`
	MaxDiscount *int64       `json:"max_discount_cents"`
	MinPurchase *int64       `json:"min_purchase_cents"`
	BuyQuantity *int         `json:"buy_quantity"`
	GetQuantity *int         `json:"get_quantity"`
	IsActive    *bool        `json:"is_active"`
	StartsAt    *time.Time   `json:"starts_at"`
	EndsAt      *time.Time   `json:"ends_at"`
	VariantIDs  *[]uuid.UUID `json:"variant_ids"`
}

// VendorDiscountUpdate patches an entry; the kind itself is immutable.
func VendorDiscountUpdate(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := vendorStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Update(r.Context(), store, id, discountsvc.UpdateDiscountInput{
			Name:        payload.Name,
			Value:       payload.Value,
			MaxDiscount: payload.MaxDiscount,
			MinPurchase: payload.MinPurchase,
			BuyQuantity: payload.BuyQuantity,
			GetQuantity: payload.GetQuantity,
			IsActive:    payload.IsActive,
			StartsAt:    payload.StartsAt,
			EndsAt:      payload.EndsAt,
			VariantIDs:  payload.VariantIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

// VendorDiscountDelete removes a catalog entry.
func VendorDiscountDelete(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := vendorStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), store, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
