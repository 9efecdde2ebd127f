package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/partner"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/infrastructure/persistence"
	"github.com/inventario/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db         *gorm.DB
	svc        *ProductService
	warehouses *persistence.GormWarehouseRepository
	suppliers  *persistence.GormSupplierRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := persistence.Open(sqlite.Open(":memory:"), zap.NewNop(), gormlogger.Silent, 0)
	require.NoError(t, err)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate())

	f := &fixture{
		db:         database.DB,
		warehouses: persistence.NewGormWarehouseRepository(database.DB),
		suppliers:  persistence.NewGormSupplierRepository(database.DB),
	}
	f.svc = NewProductService(persistence.NewGormProductRepository(database.DB), f.warehouses, f.suppliers, zap.NewNop())
	return f
}

func (f *fixture) supplier(t *testing.T, name string) uuid.UUID {
	t.Helper()
	s, err := partner.NewSupplier(name, "", "", name+"@example.com")
	require.NoError(t, err)
	require.NoError(t, f.suppliers.Save(context.Background(), s))
	return s.ID
}

func (f *fixture) warehouse(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w, err := partner.NewWarehouse(name, "Sevilla", 10, partner.WarehouseTypeGeneral)
	require.NoError(t, err)
	require.NoError(t, f.warehouses.Save(context.Background(), w))
	return w.ID
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newRequest(name string, qty int, suppliers ...uuid.UUID) CreateProductRequest {
	return CreateProductRequest{
		ProductRequest: ProductRequest{
			Name:          name,
			PurchasePrice: price("4.00"),
			SalePrice:     price("6.50"),
			SupplierIDs:   suppliers,
		},
		Quantity: &qty,
	}
}

func supplierIDs(resp *ProductResponse) []uuid.UUID {
	ids := make([]uuid.UUID, len(resp.Suppliers))
	for i, s := range resp.Suppliers {
		ids[i] = s.ID
	}
	return ids
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	wh := f.warehouse(t, "North")
	s1 := f.supplier(t, "one")

	req := newRequest("Widget", 12, s1, s1)
	req.WarehouseID = &wh
	deadline := "2026-12-31"
	req.ExportDeadline = &deadline

	resp, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)
	assert.Equal(t, "North", resp.WarehouseName)
	assert.Equal(t, "available", resp.Status)
	assert.Equal(t, []uuid.UUID{s1}, supplierIDs(resp), "duplicates are collapsed")
	require.NotNil(t, resp.ExportDeadline)
	assert.Equal(t, "2026-12-31", *resp.ExportDeadline)

	t.Run("unknown supplier is not found", func(t *testing.T) {
		_, err := f.svc.Create(ctx, newRequest("Gadget", 1, s1, uuid.New()))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("unknown warehouse is not found", func(t *testing.T) {
		req := newRequest("Gadget", 1)
		missing := uuid.New()
		req.WarehouseID = &missing
		_, err := f.svc.Create(ctx, req)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestProductService_Update_ReplacesSuppliers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s1, s2, s3 := f.supplier(t, "s1"), f.supplier(t, "s2"), f.supplier(t, "s3")

	created, err := f.svc.Create(ctx, newRequest("Widget", 7, s1, s2))
	require.NoError(t, err)

	upd := UpdateProductRequest{ProductRequest: newRequest("Widget v2", 0, s2, s3).ProductRequest}
	updated, err := f.svc.Update(ctx, created.ID, upd)
	require.NoError(t, err)

	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, 7, updated.Quantity, "update never touches quantity")
	assert.ElementsMatch(t, []uuid.UUID{s2, s3}, supplierIDs(updated))
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.Create(ctx, newRequest("Widget", 3))
	require.NoError(t, err)

	resp, err := f.svc.AdjustStock(ctx, created.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Quantity)

	resp, err = f.svc.AdjustStock(ctx, created.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, -2, resp.Quantity, "no floor is applied")

	_, err = f.svc.AdjustStock(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestProductService_LowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, tc := range []struct {
		name string
		qty  int
	}{{"a", 2}, {"b", 10}, {"c", 11}} {
		_, err := f.svc.Create(ctx, newRequest(tc.name, tc.qty))
		require.NoError(t, err)
	}

	items, err := f.svc.LowStock(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID.String(), items[i].ID.String())
	}
	for _, item := range items {
		assert.True(t, item.LowStock)
	}
}

func TestProductService_LowStockNegativeThresholdFindsOversold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	bm, err := telemetry.NewBusinessMetrics(mp.Meter("test"), zap.NewNop())
	require.NoError(t, err)
	f.svc.SetBusinessMetrics(bm)

	_, err = f.svc.Create(ctx, newRequest("in stock", 5))
	require.NoError(t, err)
	empty, err := f.svc.Create(ctx, newRequest("empty", 0))
	require.NoError(t, err)
	oversold, err := f.svc.Create(ctx, newRequest("oversold", 1))
	require.NoError(t, err)
	_, err = f.svc.AdjustStock(ctx, oversold.ID, -3)
	require.NoError(t, err)

	items, err := f.svc.LowStock(ctx, -1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, oversold.ID, items[0].ID)
	assert.Equal(t, -2, items[0].Quantity)

	items, err = f.svc.LowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []uuid.UUID{items[0].ID, items[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{empty.ID, oversold.ID}, ids)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	points := map[int64]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "inventario_low_stock_products" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Gauge[int64]).DataPoints {
				threshold, _ := dp.Attributes.Value(telemetry.AttrThreshold)
				points[threshold.AsInt64()] = dp.Value
			}
		}
	}
	assert.Equal(t, map[int64]int64{-1: 1, 0: 2}, points)
}

func TestProductService_ListByWarehouse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	wh := f.warehouse(t, "East")
	other := f.warehouse(t, "West")

	req := newRequest("In East", 1)
	req.WarehouseID = &wh
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	req = newRequest("In West", 1)
	req.WarehouseID = &other
	_, err = f.svc.Create(ctx, req)
	require.NoError(t, err)

	items, err := f.svc.ListByWarehouse(ctx, wh)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "In East", items[0].Name)

	_, err = f.svc.ListByWarehouse(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, name := range []string{"Red chair", "Blue chair", "Table"} {
		_, err := f.svc.Create(ctx, newRequest(name, 1))
		require.NoError(t, err)
	}

	items, total, err := f.svc.List(ctx, ProductListFilter{Search: "CHAIR", OrderBy: "name", OrderDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Blue chair", items[0].Name)
}
