package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/pagination"
)

// Repository handles product and variant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a product with its variants.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product with its variants.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Browse returns active products for a store, newest first, filtered by an
// optional search term and category, using cursor pagination.
func (r *Repository) Browse(ctx context.Context, storeID uuid.UUID, query, category string, params pagination.Params) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).
		Preload("Variants").
		Where("store_id = ? AND is_active = ?", storeID, true)

	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		tx = tx.Where("LOWER(name) LIKE ?", pattern)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var page []models.Product
	if err := tx.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// Update saves the product envelope; variants are managed separately.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Omit("Variants").Save(product).Error
}

// Delete removes the product; variants cascade.
func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveVariant persists a new or updated variant.
func (r *Repository) SaveVariant(ctx context.Context, variant *models.ProductVariant) error {
	if variant == nil {
		return fmt.Errorf("variant is required")
	}
	return r.db.WithContext(ctx).Save(variant).Error
}

// DeleteVariant removes one variant from a product.
func (r *Repository) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductVariant{}, "id = ?", variantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindVariants loads the given variants with their parent products.
func (r *Repository) FindVariants(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
