package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
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

// Create persists the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return errors.New("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateTx persists the order inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if order == nil {
		return errors.New("order is required")
	}
	return tx.Create(order).Error
}

// MarkPaidTx flips a pending order to paid inside the caller's transaction.
func (r *Repository) MarkPaidTx(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":  enums.OrderStatusPaid,
			"paid_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders newest-first, keyset-paginated
// on (created_at, id).
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursorTime *time.Time, cursorID *uuid.UUID, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID)
	if cursorTime != nil && cursorID != nil {
		query = query.Where("(created_at, id) < (?, ?)", *cursorTime, *cursorID)
	}
	var rows []models.Order
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkPaid flips a pending order to paid exactly once.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":  enums.OrderStatusPaid,
			"paid_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
