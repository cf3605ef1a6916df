package addresses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
)

// Repository handles address book persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to address operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the customer's addresses, primary first.
func (r *Repository) List(ctx context.Context, customerID uuid.UUID) ([]models.CustomerAddress, error) {
	var rows []models.CustomerAddress
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_primary DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one address row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error) {
	var row models.CustomerAddress
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create persists a new address. Promoting to primary demotes the rest.
func (r *Repository) Create(ctx context.Context, row *models.CustomerAddress) error {
	if row == nil {
		return fmt.Errorf("address is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.IsPrimary {
			if err := demoteOthers(tx, row.CustomerID, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
}

// Update saves the address. Promoting to primary demotes the rest.
func (r *Repository) Update(ctx context.Context, row *models.CustomerAddress) error {
	if row == nil {
		return fmt.Errorf("address is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.IsPrimary {
			if err := demoteOthers(tx, row.CustomerID, row.ID); err != nil {
				return err
			}
		}
		return tx.Save(row).Error
	})
}

// Delete removes the customer's address.
func (r *Repository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CustomerAddress{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func demoteOthers(tx *gorm.DB, customerID, keep uuid.UUID) error {
	q := tx.Model(&models.CustomerAddress{}).
		Where("customer_id = ? AND is_primary = ?", customerID, true)
	if keep != uuid.Nil {
		q = q.Where("id <> ?", keep)
	}
	return q.Update("is_primary", false).Error
}
