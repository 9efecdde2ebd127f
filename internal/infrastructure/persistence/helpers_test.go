package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/partner"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Open(sqlite.Open(":memory:"), zap.NewNop(), gormlogger.Silent, 0)
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate())
	return database.DB
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string) *partner.Warehouse {
	t.Helper()
	w, err := partner.NewWarehouse(name, "Madrid", 100, partner.WarehouseTypeGeneral)
	require.NoError(t, err)
	require.NoError(t, NewGormWarehouseRepository(db).Save(t.Context(), w))
	return w
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(name, "Contact", "555-0100", "sales@example.com")
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(t.Context(), s))
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, salePrice string, warehouseID *uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Name:          name,
		PurchasePrice: decimal.RequireFromString("1.00"),
		SalePrice:     decimal.RequireFromString(salePrice),
		WarehouseID:   warehouseID,
	}, qty)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(t.Context(), p))
	return p
}

func line(productID uuid.UUID, qty int, price string) trade.LineInput {
	return trade.LineInput{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func seedCompletedOrder(t *testing.T, db *gorm.DB, client string, at time.Time, lines ...trade.LineInput) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(client, at, lines, nil)
	require.NoError(t, err)
	require.NoError(t, o.Complete())
	require.NoError(t, NewGormOrderRepository(db).Save(t.Context(), o))
	return o
}

func seedSale(t *testing.T, db *gorm.DB, order *trade.Order, at time.Time, lines ...trade.LineInput) *trade.Sale {
	t.Helper()
	s, err := trade.NewSale(order, "", at, lines)
	require.NoError(t, err)
	require.NoError(t, NewGormSaleRepository(db).Create(t.Context(), s))
	return s
}

func quantityOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	p, err := NewGormProductRepository(db).FindByID(t.Context(), id)
	require.NoError(t, err)
	return p.Quantity
}
