package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grocemart/grocemart-backend/pkg/db/models"
	"github.com/grocemart/grocemart-backend/pkg/enums"
	"github.com/grocemart/grocemart-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return conn
}

func orderFixture(customerID uuid.UUID, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:                uuid.New(),
		CustomerID:        customerID,
		StoreID:           uuid.New(),
		CartID:            uuid.New(),
		CheckoutSessionID: uuid.New(),
		Status:            enums.OrderStatusPending,
		Currency:          enums.CurrencyUSD,
		SubtotalCents:     10000,
		DiscountCents:     1000,
		ShippingCents:     500,
		TotalCents:        9500,
		ShippingAddress: types.Address{
			Line1:      "88 Elm Street",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
		},
		ShippingSelection: types.ShippingSelection{
			Courier:      "swiftline",
			ServiceLevel: "regular",
			CostCents:    500,
		},
		Items: []models.OrderItem{{
			ID:                uuid.New(),
			VariantID:         uuid.New(),
			ProductID:         uuid.New(),
			ProductName:       "Oat Milk",
			VariantName:       "1L",
			Quantity:          2,
			UnitPriceCents:    5000,
			LineSubtotalCents: 10000,
		}},
		CreatedAt: createdAt,
	}
}

func TestRepositoryCreateTxAndFind(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	order := orderFixture(uuid.New(), time.Now())

	err := conn.Transaction(func(tx *gorm.DB) error {
		return repo.CreateTx(tx, order)
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.CustomerID, found.CustomerID)
	assert.Equal(t, int64(9500), found.TotalCents)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Oat Milk", found.Items[0].ProductName)
}

func TestRepositoryMarkPaidTxFlipsPendingOnce(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	order := orderFixture(uuid.New(), time.Now())
	require.NoError(t, repo.Create(context.Background(), order))

	paidAt := time.Now()
	require.NoError(t, repo.MarkPaidTx(conn, order.ID, paidAt))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
	require.NotNil(t, found.PaidAt)

	// A second transition attempt finds no pending row.
	err = repo.MarkPaidTx(conn, order.ID, time.Now())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryListByCustomerPaginates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	customerID := uuid.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	var created []*models.Order
	for i := 0; i < 3; i++ {
		order := orderFixture(customerID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(context.Background(), order))
		created = append(created, order)
	}
	// Another customer's order must never leak in.
	require.NoError(t, repo.Create(context.Background(), orderFixture(uuid.New(), base)))

	first, err := repo.ListByCustomer(context.Background(), customerID, nil, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, created[2].ID, first[0].ID)
	assert.Equal(t, created[1].ID, first[1].ID)

	cursor := first[len(first)-1]
	rest, err := repo.ListByCustomer(context.Background(), customerID, &cursor.CreatedAt, &cursor.ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, created[0].ID, rest[0].ID)
}
