package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
)

type stubCartRepo struct {
	active   *models.CartRecord
	created  *models.CartRecord
	replaced []models.CartItem
}

func (s *stubCartRepo) FindActive(_ context.Context, _, _ uuid.UUID) (*models.CartRecord, error) {
	if s.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.active
	return &copied, nil
}

func (s *stubCartRepo) Create(_ context.Context, cart *models.CartRecord) error {
	s.created = cart
	s.active = cart
	return nil
}

func (s *stubCartRepo) ReplaceItems(_ context.Context, cart *models.CartRecord, items []models.CartItem) error {
	s.replaced = items
	s.active = cart
	return nil
}

type stubVariantLoader struct {
	variants map[uuid.UUID]models.ProductVariant
}

func (s *stubVariantLoader) Variants(_ context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, id := range ids {
		if v, ok := s.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func codeOf(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return ""
}

func variantFixture(price, weight int64, stock int) models.ProductVariant {
	return models.ProductVariant{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		SKU:         "SKU-1",
		Name:        "default",
		PriceCents:  price,
		WeightGrams: weight,
		StockQty:    stock,
		IsActive:    true,
	}
}

func TestReplaceItemsRepricesFromVariants(t *testing.T) {
	variant := variantFixture(2500, 400, 10)
	repo := &stubCartRepo{}
	svc, err := NewService(repo, &stubVariantLoader{variants: map[uuid.UUID]models.ProductVariant{variant.ID: variant}})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.ReplaceItems(context.Background(), uuid.New(), uuid.New(), []ItemInput{
		{VariantID: variant.ID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("ReplaceItems returned error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected a cart to be created on first use")
	}
	if dto.SubtotalCents != 7500 {
		t.Fatalf("subtotal = %d, want 7500", dto.SubtotalCents)
	}
	if dto.TotalQuantity != 3 {
		t.Fatalf("total quantity = %d, want 3", dto.TotalQuantity)
	}
	if dto.EstimatedWeightGrams != 1200 {
		t.Fatalf("estimated weight = %d, want 1200", dto.EstimatedWeightGrams)
	}
	if len(dto.Items) != 1 || dto.Items[0].UnitPriceCents != 2500 {
		t.Fatalf("unexpected items: %+v", dto.Items)
	}
}

func TestReplaceItemsRejectsUnknownVariant(t *testing.T) {
	svc, err := NewService(&stubCartRepo{}, &stubVariantLoader{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.ReplaceItems(context.Background(), uuid.New(), uuid.New(), []ItemInput{
		{VariantID: uuid.New(), Quantity: 1},
	})

	if codeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReplaceItemsRejectsInsufficientStock(t *testing.T) {
	variant := variantFixture(1000, 100, 2)
	svc, err := NewService(&stubCartRepo{}, &stubVariantLoader{variants: map[uuid.UUID]models.ProductVariant{variant.ID: variant}})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.ReplaceItems(context.Background(), uuid.New(), uuid.New(), []ItemInput{
		{VariantID: variant.ID, Quantity: 5},
	})

	if codeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestReplaceItemsRejectsNonPositiveQuantity(t *testing.T) {
	svc, err := NewService(&stubCartRepo{}, &stubVariantLoader{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.ReplaceItems(context.Background(), uuid.New(), uuid.New(), []ItemInput{
		{VariantID: uuid.New(), Quantity: 0},
	})

	if codeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReplaceItemsWithEmptySetClearsCart(t *testing.T) {
	existing := &models.CartRecord{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		StoreID:       uuid.New(),
		SubtotalCents: 5000,
		TotalQuantity: 2,
	}
	repo := &stubCartRepo{active: existing}
	svc, err := NewService(repo, &stubVariantLoader{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.ReplaceItems(context.Background(), existing.CustomerID, existing.StoreID, nil)
	if err != nil {
		t.Fatalf("ReplaceItems returned error: %v", err)
	}

	if dto.SubtotalCents != 0 || dto.TotalQuantity != 0 || len(dto.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", dto)
	}
}

func TestGetActiveMissingCartIsNotFound(t *testing.T) {
	svc, err := NewService(&stubCartRepo{}, &stubVariantLoader{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.GetActive(context.Background(), uuid.New(), uuid.New())

	if codeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
