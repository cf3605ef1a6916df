package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// Repository handles cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cart operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActive loads the customer's active cart for a store, items included.
func (r *Repository) FindActive(ctx context.Context, customerID, storeID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND store_id = ? AND status = ?", customerID, storeID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByID loads a cart by id with items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create persists a new cart.
func (r *Repository) Create(ctx context.Context, cart *models.CartRecord) error {
	if cart == nil {
		return fmt.Errorf("cart is required")
	}
	return r.db.WithContext(ctx).Create(cart).Error
}

// ReplaceItems swaps the cart's lines and updates the summary columns in
// one transaction.
func (r *Repository) ReplaceItems(ctx context.Context, cart *models.CartRecord, items []models.CartItem) error {
	if cart == nil {
		return fmt.Errorf("cart is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].CartID = cart.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.CartRecord{}).
			Where("id = ?", cart.ID).
			Updates(map[string]any{
				"subtotal_cents":         cart.SubtotalCents,
				"total_quantity":         cart.TotalQuantity,
				"estimated_weight_grams": cart.EstimatedWeightGrams,
			}).Error
	})
}

// MarkConverted flips the cart to converted; it refuses double conversion.
func (r *Repository) MarkConverted(tx *gorm.DB, cartID uuid.UUID, at time.Time) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	result := tx.Model(&models.CartRecord{}).
		Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
