package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/inventario/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormDashboardRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormDashboardRepository(db)

	apple := seedProduct(t, db, "Apple", 10, "2.00", nil)
	pear := seedProduct(t, db, "Pear", 5, "4.00", nil)

	jan := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	outside := time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC)

	o1 := seedCompletedOrder(t, db, "Ana", jan, line(apple.ID, 3, "1.00"))
	seedSale(t, db, o1, jan, line(apple.ID, 3, "2.00"))

	o2 := seedCompletedOrder(t, db, "Bea", feb, line(pear.ID, 1, "2.00"), line(apple.ID, 1, "1.00"))
	seedSale(t, db, o2, feb, line(pear.ID, 1, "4.00"), line(apple.ID, 1, "2.00"))

	o3 := seedCompletedOrder(t, db, "Ana", outside, line(pear.ID, 9, "1.00"))
	seedSale(t, db, o3, outside, line(pear.ID, 9, "4.00"))

	w := report.Window{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	products, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), products)

	value, err := repo.InventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(40)), value.String())

	totals, err := repo.SalesTotals(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Count)
	assert.True(t, totals.Amount.Equal(decimal.NewFromInt(12)), totals.Amount.String())

	orders, err := repo.CountOrders(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, int64(2), orders)

	facts, err := repo.SaleFacts(ctx, w)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.True(t, jan.Equal(facts[0].SoldAt))
	assert.True(t, facts[0].Total.Equal(decimal.NewFromInt(6)))
	assert.True(t, facts[0].OrderCost.Equal(decimal.NewFromInt(3)))
	assert.True(t, facts[1].OrderCost.Equal(decimal.NewFromInt(3)))

	top, err := repo.TopProducts(ctx, w, report.TopLimit)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, apple.ID, top[0].ProductID)
	assert.Equal(t, "Apple", top[0].Name)
	assert.Equal(t, int64(4), top[0].Quantity)

	clients, err := repo.TopClients(ctx, w, 1)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ana", clients[0].Client)
	assert.True(t, clients[0].Total.Equal(decimal.NewFromInt(6)))
}
