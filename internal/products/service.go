package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
	"github.com/grocemart/grocemart-backend/pkg/pagination"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Browse(ctx context.Context, storeID uuid.UUID, query, category string, params pagination.Params) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	SaveVariant(ctx context.Context, variant *models.ProductVariant) error
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
	FindVariants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
}

// Service exposes public browsing and vendor product management.
type Service interface {
	Browse(ctx context.Context, storeID uuid.UUID, query, category string, params pagination.Params) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, storeID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	UpsertVariant(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID, input VariantInput) (*ProductDTO, error)
	RemoveVariant(ctx context.Context, storeID, productID, variantID uuid.UUID) error
	Variants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
}

type service struct {
	repo productRepository
}

// NewService builds a product service with the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, storeID uuid.UUID, query, category string, params pagination.Params) (*Page, error) {
	rows, err := s.repo.Browse(ctx, storeID, query, category, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse products")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &Page{Products: make([]ProductDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			page.NextCursor = &cursor
			break
		}
		page.Products = append(page.Products, toDTO(row))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if len(input.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product requires at least one variant")
	}
	for _, v := range input.Variants {
		if err := validateVariant(v); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		StoreID:     storeID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		IsActive:    true,
	}
	for _, v := range input.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			SKU:         strings.TrimSpace(v.SKU),
			Name:        strings.TrimSpace(v.Name),
			PriceCents:  v.PriceCents,
			WeightGrams: v.WeightGrams,
			StockQty:    v.StockQty,
			IsActive:    true,
		})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, storeID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadStoreProduct(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = trimmed
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		trimmed := strings.TrimSpace(*input.Category)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product category cannot be empty")
		}
		product.Category = trimmed
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, storeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) UpsertVariant(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID, input VariantInput) (*ProductDTO, error) {
	if err := validateVariant(input); err != nil {
		return nil, err
	}
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	variant := models.ProductVariant{
		ProductID:   product.ID,
		SKU:         strings.TrimSpace(input.SKU),
		Name:        strings.TrimSpace(input.Name),
		PriceCents:  input.PriceCents,
		WeightGrams: input.WeightGrams,
		StockQty:    input.StockQty,
		IsActive:    true,
	}
	if variantID != nil {
		found := false
		for _, existing := range product.Variants {
			if existing.ID == *variantID {
				variant.ID = existing.ID
				variant.IsActive = existing.IsActive
				variant.CreatedAt = existing.CreatedAt
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
	}

	if err := s.repo.SaveVariant(ctx, &variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save variant")
	}
	return s.Get(ctx, product.ID)
}

func (s *service) RemoveVariant(ctx context.Context, storeID, productID, variantID uuid.UUID) error {
	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}
	if len(product.Variants) <= 1 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product must keep at least one variant")
	}
	if err := s.repo.DeleteVariant(ctx, product.ID, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	return nil
}

// Variants loads raw variant rows for other services (cart repricing).
func (s *service) Variants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	variants, err := s.repo.FindVariants(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	return variants, nil
}

func (s *service) loadStoreProduct(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}
	return product, nil
}

func validateVariant(v VariantInput) error {
	if strings.TrimSpace(v.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant sku is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant name is required")
	}
	if v.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
	}
	if v.WeightGrams < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant weight cannot be negative")
	}
	if v.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
	}
	return nil
}
