package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
)

// Repository handles checkout session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to checkout session operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOpenByCart loads the customer's open session for the cart, if any.
func (r *Repository) FindOpenByCart(ctx context.Context, customerID, cartID uuid.UUID) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND cart_id = ? AND status = ?", customerID, cartID, enums.CheckoutStatusOpen).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByID loads a session regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Create persists a fresh session.
func (r *Repository) Create(ctx context.Context, session *models.CheckoutSession) error {
	if session == nil {
		return errors.New("session is required")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// Save writes the full session row.
func (r *Repository) Save(ctx context.Context, session *models.CheckoutSession) error {
	if session == nil {
		return errors.New("session is required")
	}
	return r.db.WithContext(ctx).Save(session).Error
}

// SaveTx writes the session inside the caller's transaction.
func (r *Repository) SaveTx(tx *gorm.DB, session *models.CheckoutSession) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if session == nil {
		return errors.New("session is required")
	}
	return tx.Save(session).Error
}

// Transition moves the session between statuses, guarded so concurrent
// submits cannot both win. Zero rows means the guard lost.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, from, to enums.CheckoutStatus) error {
	result := r.db.WithContext(ctx).Model(&models.CheckoutSession{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
