package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	addresssvc "github.com/grocemart/grocemart-backend/internal/addresses"
	cartsvc "github.com/grocemart/grocemart-backend/internal/cart"
	checkoutsvc "github.com/grocemart/grocemart-backend/internal/checkout"
	discountsvc "github.com/grocemart/grocemart-backend/internal/discounts"
	ordersvc "github.com/grocemart/grocemart-backend/internal/orders"
	productsvc "github.com/grocemart/grocemart-backend/internal/products"
	shippingsvc "github.com/grocemart/grocemart-backend/internal/shipping"
	storesvc "github.com/grocemart/grocemart-backend/internal/stores"
	pkgauth "github.com/grocemart/grocemart-backend/pkg/auth"
	"github.com/grocemart/grocemart-backend/pkg/config"
	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/pagination"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubStores struct{}

func (stubStores) GetByID(context.Context, uuid.UUID) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{ID: uuid.New()}, nil
}
func (stubStores) GetBySlug(context.Context, string) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{ID: uuid.New(), Slug: "corner-market"}, nil
}
func (stubStores) Update(context.Context, uuid.UUID, storesvc.UpdateStoreInput) (*storesvc.StoreDTO, error) {
	return &storesvc.StoreDTO{ID: uuid.New()}, nil
}
func (stubStores) Location(context.Context, uuid.UUID) (types.LatLng, error) {
	return types.LatLng{}, nil
}

type stubProducts struct{}

func (stubProducts) Browse(context.Context, uuid.UUID, string, string, pagination.Params) (*productsvc.Page, error) {
	return &productsvc.Page{Products: []productsvc.ProductDTO{}}, nil
}
func (stubProducts) Get(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New()}, nil
}
func (stubProducts) Create(context.Context, uuid.UUID, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New()}, nil
}
func (stubProducts) Update(context.Context, uuid.UUID, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New()}, nil
}
func (stubProducts) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubProducts) UpsertVariant(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID, productsvc.VariantInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New()}, nil
}
func (stubProducts) RemoveVariant(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
	return nil
}
func (stubProducts) Variants(context.Context, []uuid.UUID) ([]models.ProductVariant, error) {
	return nil, nil
}

type stubDiscounts struct{}

func (stubDiscounts) Create(context.Context, uuid.UUID, discountsvc.CreateDiscountInput) (*discountsvc.DiscountDTO, error) {
	return &discountsvc.DiscountDTO{ID: uuid.New()}, nil
}
func (stubDiscounts) List(context.Context, uuid.UUID) ([]discountsvc.DiscountDTO, error) {
	return nil, nil
}
func (stubDiscounts) Get(context.Context, uuid.UUID, uuid.UUID) (*discountsvc.DiscountDTO, error) {
	return &discountsvc.DiscountDTO{ID: uuid.New()}, nil
}
func (stubDiscounts) Update(context.Context, uuid.UUID, uuid.UUID, discountsvc.UpdateDiscountInput) (*discountsvc.DiscountDTO, error) {
	return &discountsvc.DiscountDTO{ID: uuid.New()}, nil
}
func (stubDiscounts) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubDiscounts) ActiveCatalog(context.Context, uuid.UUID) ([]models.Discount, error) {
	return nil, nil
}

type stubCart struct{}

func (stubCart) GetActive(context.Context, uuid.UUID, uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: uuid.New()}, nil
}
func (stubCart) ReplaceItems(context.Context, uuid.UUID, uuid.UUID, []cartsvc.ItemInput) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: uuid.New()}, nil
}
func (stubCart) ActiveRecord(context.Context, uuid.UUID, uuid.UUID) (*models.CartRecord, error) {
	return &models.CartRecord{ID: uuid.New()}, nil
}

type stubAddresses struct{}

func (stubAddresses) List(context.Context, uuid.UUID) ([]addresssvc.AddressDTO, error) {
	return nil, nil
}
func (stubAddresses) Get(context.Context, uuid.UUID, uuid.UUID) (*addresssvc.AddressDTO, error) {
	return &addresssvc.AddressDTO{ID: uuid.New()}, nil
}
func (stubAddresses) Create(context.Context, uuid.UUID, addresssvc.CreateAddressInput) (*addresssvc.AddressDTO, error) {
	return &addresssvc.AddressDTO{ID: uuid.New()}, nil
}
func (stubAddresses) Update(context.Context, uuid.UUID, uuid.UUID, addresssvc.UpdateAddressInput) (*addresssvc.AddressDTO, error) {
	return &addresssvc.AddressDTO{ID: uuid.New()}, nil
}
func (stubAddresses) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubAddresses) Suggest(context.Context, string) ([]addresssvc.SuggestionDTO, error) {
	return nil, nil
}
func (stubAddresses) Resolve(context.Context, string) (*addresssvc.ResolvedPlaceDTO, error) {
	return &addresssvc.ResolvedPlaceDTO{}, nil
}
func (stubAddresses) Record(context.Context, uuid.UUID, uuid.UUID) (*models.CustomerAddress, error) {
	return &models.CustomerAddress{ID: uuid.New()}, nil
}

type stubShipping struct{}

func (stubShipping) Quote(context.Context, shippingsvc.QuoteRequest) ([]shippingsvc.Option, error) {
	return nil, nil
}

type stubCheckout struct{}

func (stubCheckout) Preview(context.Context, uuid.UUID, uuid.UUID) (*checkoutsvc.PreviewDTO, error) {
	return &checkoutsvc.PreviewDTO{SessionID: uuid.New()}, nil
}
func (stubCheckout) SelectAddress(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*checkoutsvc.PreviewDTO, error) {
	return &checkoutsvc.PreviewDTO{SessionID: uuid.New()}, nil
}
func (stubCheckout) SelectShipping(context.Context, uuid.UUID, uuid.UUID, checkoutsvc.ShippingInput) (*checkoutsvc.PreviewDTO, error) {
	return &checkoutsvc.PreviewDTO{SessionID: uuid.New()}, nil
}
func (stubCheckout) ToggleDiscount(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, bool) (*checkoutsvc.PreviewDTO, error) {
	return &checkoutsvc.PreviewDTO{SessionID: uuid.New()}, nil
}
func (stubCheckout) Submit(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: uuid.New()}, nil
}

type stubOrders struct{}

func (stubOrders) List(context.Context, uuid.UUID, pagination.Params) (*ordersvc.Page, error) {
	return &ordersvc.Page{}, nil
}
func (stubOrders) Get(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: uuid.New()}, nil
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(cfg, nil, stubPinger{}, stubPinger{}, nil, nil, stubSessions{}, nil, nil, Services{
		Stores:    stubStores{},
		Products:  stubProducts{},
		Discounts: stubDiscounts{},
		Cart:      stubCart{},
		Addresses: stubAddresses{},
		Shipping:  stubShipping{},
		Checkout:  stubCheckout{},
		Orders:    stubOrders{},
	})
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func bearerToken(t *testing.T, cfg *config.Config, role enums.MemberRole, storeID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: storeID,
		Role:    role,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicProductsDoNotRequireAuth(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/public/products?store_id="+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestVendorRoutesRejectCustomers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/discounts", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, enums.MemberRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestVendorRoutesAllowVendors(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	storeID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/discounts", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, enums.MemberRoleVendor, &storeID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCustomerCartRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?store_id="+uuid.NewString(), nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, enums.MemberRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
