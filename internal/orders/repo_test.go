package orders

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:orders_repo_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  session_id TEXT,
  client_order_id TEXT,
  status TEXT NOT NULL DEFAULT 'placed',
  currency TEXT NOT NULL DEFAULT 'USD',
  shipping_address TEXT,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	clientOrderIdx := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_client_order_id
  ON orders (client_order_id) WHERE client_order_id IS NOT NULL;`
	orderLines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`

	for _, stmt := range []string{orders, clientOrderIdx, orderLines} {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	return conn
}

func testOrder(token *string) *models.Order {
	userID := uuid.NewString()
	return &models.Order{
		UserID:        &userID,
		ClientOrderID: token,
		Status:        enums.OrderStatusPlaced,
		Currency:      enums.CurrencyUSD,
		TotalCents:    3000,
		Lines: []models.OrderLine{
			{ProductID: uuid.New(), Name: "Widget", Quantity: 2, UnitPriceCents: 1500, LineTotalCents: 3000},
		},
	}
}

func TestRepositoryCreatePersistsLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, testOrder(nil))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Widget", found.Lines[0].Name)
	assert.Equal(t, 3000, found.TotalCents)
	assert.Equal(t, enums.OrderStatusPlaced, found.Status)
}

func TestRepositoryTotalMatchesLineSum(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := testOrder(nil)
	order.Lines = append(order.Lines, models.OrderLine{
		ProductID: uuid.New(), Name: "Gadget", Quantity: 1, UnitPriceCents: 500, LineTotalCents: 500,
	})
	order.TotalCents = 3500

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	sum := 0
	for _, line := range found.Lines {
		sum += line.LineTotalCents
	}
	assert.Equal(t, found.TotalCents, sum)
}

func TestRepositoryDuplicateTokenRejected(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	token := uuid.NewString()
	_, err := repo.Create(ctx, testOrder(&token))
	require.NoError(t, err)

	_, err = repo.Create(ctx, testOrder(&token))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, clientOrderIDConstraint))
}

func TestRepositoryTokenlessOrdersNotDeduplicated(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first, err := repo.Create(ctx, testOrder(nil))
	require.NoError(t, err)
	second, err := repo.Create(ctx, testOrder(nil))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRepositoryFindByClientOrderID(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	token := uuid.NewString()
	created, err := repo.Create(ctx, testOrder(&token))
	require.NoError(t, err)

	found, err := repo.FindByClientOrderID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByClientOrderID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, testOrder(nil))
	require.NoError(t, err)

	affected, err := repo.UpdateStatus(ctx, created.ID, enums.OrderStatusPlaced, enums.OrderStatusFulfilled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusFulfilled, found.Status)

	// stale expected status must not move the row
	affected, err = repo.UpdateStatus(ctx, created.ID, enums.OrderStatusPlaced, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	found, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusFulfilled, found.Status)

	affected, err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusPlaced, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
