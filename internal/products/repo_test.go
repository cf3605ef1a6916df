package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/pagination"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewRepository(conn)
}

func seedProduct(t *testing.T, repo *Repository, storeID uuid.UUID, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		StoreID:  storeID,
		Name:     name,
		Category: "produce",
		IsActive: true,
		Variants: []models.ProductVariant{{
			ID:          uuid.New(),
			SKU:         "SKU-" + name,
			Name:        "default",
			PriceCents:  1500,
			WeightGrams: 250,
			StockQty:    10,
			IsActive:    true,
		}},
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	storeID := uuid.New()
	created := seedProduct(t, repo, storeID, "organic apples")

	found, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Name != "organic apples" {
		t.Fatalf("unexpected name %q", found.Name)
	}
	if len(found.Variants) != 1 {
		t.Fatalf("expected variant preloaded, got %d", len(found.Variants))
	}
}

func TestRepositoryBrowseFiltersByQuery(t *testing.T) {
	repo := newTestRepo(t)
	storeID := uuid.New()
	seedProduct(t, repo, storeID, "organic apples")
	seedProduct(t, repo, storeID, "whole milk")

	page, err := repo.Browse(context.Background(), storeID, "apple", "", pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("Browse returned error: %v", err)
	}
	if len(page) != 1 || page[0].Name != "organic apples" {
		t.Fatalf("unexpected browse result: %+v", page)
	}
}

func TestRepositoryBrowseExcludesInactive(t *testing.T) {
	repo := newTestRepo(t)
	storeID := uuid.New()
	active := seedProduct(t, repo, storeID, "bananas")
	hidden := seedProduct(t, repo, storeID, "melons")
	hidden.IsActive = false
	if err := repo.Update(context.Background(), hidden); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	page, err := repo.Browse(context.Background(), storeID, "", "", pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("Browse returned error: %v", err)
	}
	if len(page) != 1 || page[0].ID != active.ID {
		t.Fatalf("expected only active product, got %+v", page)
	}
}

func TestRepositoryDeleteScopedToStore(t *testing.T) {
	repo := newTestRepo(t)
	storeID := uuid.New()
	product := seedProduct(t, repo, storeID, "eggs")

	if err := repo.Delete(context.Background(), uuid.New(), product.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found for foreign store, got %v", err)
	}
	if err := repo.Delete(context.Background(), storeID, product.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestRepositoryFindVariants(t *testing.T) {
	repo := newTestRepo(t)
	storeID := uuid.New()
	a := seedProduct(t, repo, storeID, "bread")
	b := seedProduct(t, repo, storeID, "butter")

	variants, err := repo.FindVariants(context.Background(), []uuid.UUID{a.Variants[0].ID, b.Variants[0].ID})
	if err != nil {
		t.Fatalf("FindVariants returned error: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
}
