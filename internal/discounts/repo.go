package discounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
)

// Repository handles discount catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to discount operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new discount with its variant links.
func (r *Repository) Create(ctx context.Context, discount *models.Discount) error {
	if discount == nil {
		return fmt.Errorf("discount is required")
	}
	return r.db.WithContext(ctx).Create(discount).Error
}

// FindByID loads a discount with its variant links.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).
		Preload("Products").
		First(&discount, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// ListByStore returns the store's full catalog in stable composition order.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error) {
	var catalog []models.Discount
	if err := r.db.WithContext(ctx).
		Preload("Products").
		Where("store_id = ?", storeID).
		Order("sort_order ASC, created_at ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}
	return catalog, nil
}

// ListActiveByStore returns only active catalog rows, same ordering.
func (r *Repository) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Discount, error) {
	var catalog []models.Discount
	if err := r.db.WithContext(ctx).
		Preload("Products").
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("sort_order ASC, created_at ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}
	return catalog, nil
}

// Update saves the discount envelope fields.
func (r *Repository) Update(ctx context.Context, discount *models.Discount) error {
	if discount == nil {
		return fmt.Errorf("discount is required")
	}
	return r.db.WithContext(ctx).Save(discount).Error
}

// ReplaceProductLinks swaps the discount's variant links in one transaction.
func (r *Repository) ReplaceProductLinks(ctx context.Context, discountID uuid.UUID, variantIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discount_id = ?", discountID).
			Delete(&models.DiscountProduct{}).Error; err != nil {
			return err
		}
		if len(variantIDs) == 0 {
			return nil
		}
		links := make([]models.DiscountProduct, 0, len(variantIDs))
		for _, variantID := range variantIDs {
			links = append(links, models.DiscountProduct{
				DiscountID: discountID,
				VariantID:  variantID,
			})
		}
		return tx.Create(&links).Error
	})
}

// Delete removes the discount; variant links cascade.
func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Delete(&models.Discount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
