package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
)

type cartRepository interface {
	FindActive(ctx context.Context, customerID, storeID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, cart *models.CartRecord) error
	ReplaceItems(ctx context.Context, cart *models.CartRecord, items []models.CartItem) error
}

type variantLoader interface {
	Variants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
}

// Service exposes the customer cart surface.
type Service interface {
	GetActive(ctx context.Context, customerID, storeID uuid.UUID) (*CartDTO, error)
	ReplaceItems(ctx context.Context, customerID, storeID uuid.UUID, items []ItemInput) (*CartDTO, error)
	ActiveRecord(ctx context.Context, customerID, storeID uuid.UUID) (*models.CartRecord, error)
}

type service struct {
	repo     cartRepository
	variants variantLoader
}

// NewService builds a cart service with the provided collaborators.
func NewService(repo cartRepository, variants variantLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	return &service{repo: repo, variants: variants}, nil
}

func (s *service) GetActive(ctx context.Context, customerID, storeID uuid.UUID) (*CartDTO, error) {
	cart, err := s.ActiveRecord(ctx, customerID, storeID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*cart)
	return &dto, nil
}

// ActiveRecord returns the raw active cart row for checkout flows.
func (s *service) ActiveRecord(ctx context.Context, customerID, storeID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.repo.FindActive(ctx, customerID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) ReplaceItems(ctx context.Context, customerID, storeID uuid.UUID, items []ItemInput) (*CartDTO, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item variant id is required")
		}
	}

	cart, err := s.repo.FindActive(ctx, customerID, storeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		cart = &models.CartRecord{
			ID:         uuid.New(),
			CustomerID: customerID,
			StoreID:    storeID,
			Status:     enums.CartStatusActive,
			Currency:   enums.CurrencyUSD,
		}
		if err := s.repo.Create(ctx, cart); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
	}

	lines, err := s.buildLines(ctx, items)
	if err != nil {
		return nil, err
	}

	cart.SubtotalCents = 0
	cart.TotalQuantity = 0
	cart.EstimatedWeightGrams = 0
	for _, line := range lines {
		cart.SubtotalCents += line.LineSubtotalCents
		cart.TotalQuantity += line.Quantity
		cart.EstimatedWeightGrams += line.WeightGrams * int64(line.Quantity)
	}

	if err := s.repo.ReplaceItems(ctx, cart, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart items")
	}

	cart.Items = lines
	dto := toDTO(*cart)
	return &dto, nil
}

// buildLines reprices requested items against the live variant rows.
func (s *service) buildLines(ctx context.Context, items []ItemInput) ([]models.CartItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}
	variants, err := s.variants.Variants(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.ProductVariant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	lines := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		variant, ok := byID[item.VariantID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		if !variant.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "variant is no longer available")
		}
		if variant.StockQty < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]any{"variant_id": variant.ID, "available": variant.StockQty})
		}
		lines = append(lines, models.CartItem{
			ID:                uuid.New(),
			VariantID:         variant.ID,
			ProductID:         variant.ProductID,
			Quantity:          item.Quantity,
			UnitPriceCents:    variant.PriceCents,
			LineSubtotalCents: variant.PriceCents * int64(item.Quantity),
			WeightGrams:       variant.WeightGrams,
		})
	}
	return lines, nil
}
