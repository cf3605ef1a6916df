package discounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
)

type stubCatalogRepo struct {
	created    *models.Discount
	discount   *models.Discount
	findErr    error
	deleteErr  error
	replaced   []uuid.UUID
	replacedOK bool
}

func (s *stubCatalogRepo) Create(_ context.Context, discount *models.Discount) error {
	discount.ID = uuid.New()
	s.created = discount
	return nil
}

func (s *stubCatalogRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Discount, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.discount == nil || s.discount.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.discount
	return &copied, nil
}

func (s *stubCatalogRepo) ListByStore(_ context.Context, _ uuid.UUID) ([]models.Discount, error) {
	if s.discount == nil {
		return nil, nil
	}
	return []models.Discount{*s.discount}, nil
}

func (s *stubCatalogRepo) ListActiveByStore(_ context.Context, _ uuid.UUID) ([]models.Discount, error) {
	if s.discount == nil || !s.discount.IsActive {
		return nil, nil
	}
	return []models.Discount{*s.discount}, nil
}

func (s *stubCatalogRepo) Update(_ context.Context, discount *models.Discount) error {
	s.discount = discount
	return nil
}

func (s *stubCatalogRepo) ReplaceProductLinks(_ context.Context, _ uuid.UUID, variantIDs []uuid.UUID) error {
	s.replaced = variantIDs
	s.replacedOK = true
	return nil
}

func (s *stubCatalogRepo) Delete(_ context.Context, _, _ uuid.UUID) error {
	return s.deleteErr
}

func codeOf(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return ""
}

func newTestService(t *testing.T, repo *stubCatalogRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCreateRequiresVariantsForProductDiscounts(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateDiscountInput{
		Name:      "weekend promo",
		Type:      enums.DiscountTypeProduct,
		ValueType: enums.DiscountValuePercentage,
		Value:     10,
	})

	if codeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRequiresBOGOQuantities(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateDiscountInput{
		Name:       "bogo",
		Type:       enums.DiscountTypeBOGO,
		VariantIDs: []uuid.UUID{uuid.New()},
	})

	if codeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCartDiscount(t *testing.T) {
	repo := &stubCatalogRepo{}
	svc := newTestService(t, repo)

	minPurchase := int64(20000)
	dto, err := svc.Create(context.Background(), uuid.New(), CreateDiscountInput{
		Name:        "big basket",
		Type:        enums.DiscountTypeCart,
		ValueType:   enums.DiscountValueFixedAmount,
		Value:       5000,
		MinPurchase: &minPurchase,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected repository create call")
	}
	if !dto.IsActive {
		t.Fatal("new discounts should default to active")
	}
	if dto.MinPurchase == nil || *dto.MinPurchase != 20000 {
		t.Fatalf("unexpected min purchase: %v", dto.MinPurchase)
	}
}

func TestUpdateRejectsForeignStore(t *testing.T) {
	existing := &models.Discount{
		ID:        uuid.New(),
		StoreID:   uuid.New(),
		Name:      "promo",
		Type:      enums.DiscountTypeCart,
		ValueType: enums.DiscountValueFixedAmount,
		Value:     1000,
		IsActive:  true,
	}
	svc := newTestService(t, &stubCatalogRepo{discount: existing})

	_, err := svc.Update(context.Background(), uuid.New(), existing.ID, UpdateDiscountInput{})

	if codeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUpdateReplacesVariantLinks(t *testing.T) {
	storeID := uuid.New()
	existing := &models.Discount{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      "promo",
		Type:      enums.DiscountTypeProduct,
		ValueType: enums.DiscountValuePercentage,
		Value:     10,
		IsActive:  true,
		Products:  []models.DiscountProduct{{VariantID: uuid.New()}},
	}
	repo := &stubCatalogRepo{discount: existing}
	svc := newTestService(t, repo)

	next := []uuid.UUID{uuid.New(), uuid.New()}
	if _, err := svc.Update(context.Background(), storeID, existing.ID, UpdateDiscountInput{VariantIDs: &next}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if !repo.replacedOK || len(repo.replaced) != 2 {
		t.Fatalf("expected variant links replaced, got %v", repo.replaced)
	}
}

func TestGetUnknownDiscountIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())

	if codeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
