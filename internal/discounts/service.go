package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
)

type catalogRepository interface {
	Create(ctx context.Context, discount *models.Discount) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error)
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error)
	Update(ctx context.Context, discount *models.Discount) error
	ReplaceProductLinks(ctx context.Context, discountID uuid.UUID, variantIDs []uuid.UUID) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// Service exposes vendor-facing catalog management plus the loader the
// checkout flow composes against.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error)
	List(ctx context.Context, storeID uuid.UUID) ([]DiscountDTO, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*DiscountDTO, error)
	Update(ctx context.Context, storeID, id uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	ActiveCatalog(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a discount service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	valueType := input.ValueType
	if input.Type == enums.DiscountTypeBOGO && !valueType.IsValid() {
		valueType = enums.DiscountValueFixedAmount
	}

	discount := &models.Discount{
		StoreID:     storeID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		ValueType:   valueType,
		Value:       input.Value,
		MaxDiscount: input.MaxDiscount,
		MinPurchase: input.MinPurchase,
		BuyQuantity: input.BuyQuantity,
		GetQuantity: input.GetQuantity,
		IsActive:    true,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	if input.IsActive != nil {
		discount.IsActive = *input.IsActive
	}
	for _, variantID := range input.VariantIDs {
		discount.Products = append(discount.Products, models.DiscountProduct{VariantID: variantID})
	}

	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
	}
	dto := toDTO(*discount)
	return &dto, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]DiscountDTO, error) {
	catalog, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discounts")
	}
	dtos := make([]DiscountDTO, 0, len(catalog))
	for _, d := range catalog {
		dtos = append(dtos, toDTO(d))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, storeID, id uuid.UUID) (*DiscountDTO, error) {
	discount, err := s.loadStoreDiscount(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*discount)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, storeID, id uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error) {
	discount, err := s.loadStoreDiscount(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount name cannot be empty")
		}
		discount.Name = trimmed
	}
	if input.Value != nil {
		if *input.Value < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
		}
		discount.Value = *input.Value
	}
	if input.MaxDiscount != nil {
		discount.MaxDiscount = input.MaxDiscount
	}
	if input.MinPurchase != nil {
		discount.MinPurchase = input.MinPurchase
	}
	if input.BuyQuantity != nil {
		discount.BuyQuantity = input.BuyQuantity
	}
	if input.GetQuantity != nil {
		discount.GetQuantity = input.GetQuantity
	}
	if input.IsActive != nil {
		discount.IsActive = *input.IsActive
	}
	if input.StartsAt != nil {
		discount.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		discount.EndsAt = input.EndsAt
	}

	if discount.Type == enums.DiscountTypeBOGO {
		buy, get := bogoQuantities(*discount)
		if buy <= 0 || get <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy one get one discounts require positive buy and get quantities")
		}
	}

	if err := s.repo.Update(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount")
	}

	if input.VariantIDs != nil {
		if linksRequired(discount.Type) && len(*input.VariantIDs) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount requires at least one variant")
		}
		if err := s.repo.ReplaceProductLinks(ctx, discount.ID, *input.VariantIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace discount variants")
		}
		discount, err = s.loadStoreDiscount(ctx, storeID, id)
		if err != nil {
			return nil, err
		}
	}

	dto := toDTO(*discount)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, storeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount")
	}
	return nil
}

// ActiveCatalog returns the store's active discounts in composition order.
func (s *service) ActiveCatalog(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error) {
	catalog, err := s.repo.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount catalog")
	}
	return catalog, nil
}

func (s *service) loadStoreDiscount(ctx context.Context, storeID, id uuid.UUID) (*models.Discount, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount")
	}
	if discount.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "discount belongs to another store")
	}
	return discount, nil
}

func validateCreate(input CreateDiscountInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount name is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if input.Type != enums.DiscountTypeBOGO {
		if !input.ValueType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown discount value type")
		}
		if input.Value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
		}
		if input.ValueType == enums.DiscountValuePercentage && input.Value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
		}
	}
	if input.Type == enums.DiscountTypeBOGO {
		if input.BuyQuantity == nil || input.GetQuantity == nil || *input.BuyQuantity <= 0 || *input.GetQuantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "buy one get one discounts require positive buy and get quantities")
		}
	}
	if linksRequired(input.Type) && len(input.VariantIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount requires at least one variant")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount window ends before it starts")
	}
	return nil
}

func linksRequired(t enums.DiscountType) bool {
	return t == enums.DiscountTypeProduct || t == enums.DiscountTypeBOGO
}
