package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/inventario/backend/internal/application/catalog"
	reportapp "github.com/inventario/backend/internal/application/report"
	tradeapp "github.com/inventario/backend/internal/application/trade"
	"github.com/inventario/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(productID uuid.UUID, qty int, price string) []gin.H {
	return []gin.H{{"product_id": productID.String(), "quantity": qty, "unit_price": price}}
}

func (a *testAPI) quantityOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	rec, env := a.do(t, http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[catalogapp.ProductResponse](t, env).Quantity
}

func (a *testAPI) createOrder(t *testing.T, productID uuid.UUID, qty int) tradeapp.OrderResponse {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"client": "ACME",
		"lines":  lines(productID, qty, "5.00"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[tradeapp.OrderResponse](t, env)
}

func TestTradeFlow(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	product := api.createProduct(t, "Widget", 10, nil)
	order := api.createOrder(t, product.ID, 3)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("15").Equal(order.Total))
	assert.Equal(t, 10, api.quantityOf(t, product.ID), "orders do not move stock")

	saleBody := gin.H{
		"order_id": order.ID.String(),
		"sold_at":  "2024-03-10T12:00:00Z",
		"lines":    lines(product.ID, 3, "5.00"),
	}

	rec, env := api.do(t, http.MethodPost, "/api/v1/sales", saleBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	rec, env = api.do(t, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/complete_order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode[tradeapp.OrderResponse](t, env).Status)

	rec, env = api.do(t, http.MethodPost, "/api/v1/sales", saleBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[tradeapp.SaleResponse](t, env)
	assert.Equal(t, "ACME", sale.Client)
	assert.True(t, decimal.RequireFromString("15").Equal(sale.Total))
	assert.Equal(t, 7, api.quantityOf(t, product.ID))

	rec, env = api.do(t, http.MethodPost, "/api/v1/sales", saleBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, env.Error.Code)

	t.Run("sales report", func(t *testing.T) {
		rec, env := api.do(t, http.MethodGet, "/api/v1/sales/sales_report?start_date=2024-03-10&end_date=2024-03-10", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		report := decode[tradeapp.SalesReportResponse](t, env)
		assert.Equal(t, int64(1), report.SalesCount)
		assert.True(t, decimal.RequireFromString("15").Equal(report.TotalAmount))

		rec, env = api.do(t, http.MethodGet, "/api/v1/sales/sales_report?end_date=2024-03-10", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, env.Error.Code)

		rec, env = api.do(t, http.MethodGet, "/api/v1/sales/sales_report?start_date=2024-03-11&end_date=2024-03-10", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidRange, env.Error.Code)
	})

	t.Run("export record", func(t *testing.T) {
		rec, env := api.do(t, http.MethodPost, "/api/v1/exports", gin.H{
			"sale_id":             sale.ID.String(),
			"export_date":         "2024-03-11",
			"destination_country": "Chile",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		export := decode[tradeapp.ExportResponse](t, env)
		assert.Equal(t, "2024-03-11", export.ExportDate)

		rec, env = api.do(t, http.MethodGet, "/api/v1/exports?sale_id="+sale.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), env.Meta.Total)
		assert.Equal(t, 7, api.quantityOf(t, product.ID), "exports do not move stock")
	})

	t.Run("return restores stock once", func(t *testing.T) {
		body := gin.H{
			"sale_id":     sale.ID.String(),
			"return_date": "2024-03-12",
			"reason":      "damaged",
		}
		rec, _ := api.do(t, http.MethodPost, "/api/v1/returns", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, 10, api.quantityOf(t, product.ID))

		rec, env := api.do(t, http.MethodPost, "/api/v1/returns", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)
		assert.Equal(t, 10, api.quantityOf(t, product.ID))
	})

	t.Run("payment status", func(t *testing.T) {
		path := "/api/v1/orders/" + order.ID.String() + "/payment_status"

		rec, env := api.do(t, http.MethodPut, path, gin.H{"payment_status": "paid"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "paid", decode[tradeapp.OrderResponse](t, env).PaymentStatus)

		rec, env = api.do(t, http.MethodPut, path, gin.H{"payment_status": "pending"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

		rec, env = api.do(t, http.MethodPut, path, gin.H{"payment_status": "lost"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		rec, env := api.do(t, http.MethodPut, "/api/v1/orders/"+order.ID.String(), gin.H{
			"client": "ACME",
			"status": "cancelled",
			"lines":  lines(product.ID, 3, "5.00"),
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)
	})
}

func TestOrderHandler_Validation(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec, env := api.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"client": "ACME",
		"lines":  []gin.H{{"product_id": uuid.NewString(), "quantity": 0, "unit_price": "1.00"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	require.NotEmpty(t, env.Error.Details)
	assert.Equal(t, "lines[0].quantity", env.Error.Details[0].Field)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"client": "ACME",
		"lines":  lines(uuid.New(), 1, "1.00"),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_DeleteRemovesSale(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	product := api.createProduct(t, "Gadget", 5, nil)
	order := api.createOrder(t, product.ID, 1)
	rec, _ := api.do(t, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/complete_order", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := api.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"order_id": order.ID.String(),
		"lines":    lines(product.ID, 1, "5.00"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[tradeapp.SaleResponse](t, env)

	rec, _ = api.do(t, http.MethodDelete, "/api/v1/orders/"+order.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/sales/"+sale.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 4, api.quantityOf(t, product.ID), "deleting does not restock")
}

func TestDashboardHandler(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	product := api.createProduct(t, "Widget", 10, nil)
	order := api.createOrder(t, product.ID, 2)
	rec, _ := api.do(t, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/complete_order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"order_id": order.ID.String(),
		"sold_at":  "2024-03-10T12:00:00Z",
		"lines":    lines(product.ID, 2, "5.00"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := api.do(t, http.MethodGet, "/api/v1/dashboard?start_date=2024-03-01&end_date=2024-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dashboard := decode[reportapp.DashboardResponse](t, env)
	assert.Equal(t, int64(1), dashboard.SalesCount)
	assert.Equal(t, int64(1), dashboard.TotalProducts)
	assert.True(t, decimal.RequireFromString("10").Equal(dashboard.TotalSales))
	require.Len(t, dashboard.TopProducts, 1)
	assert.Equal(t, "Widget", dashboard.TopProducts[0].Name)
	require.Len(t, dashboard.TopClients, 1)
	assert.Equal(t, "ACME", dashboard.TopClients[0].Client)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/dashboard?time_range=30d", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/v1/dashboard?time_range=1y", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidRange, env.Error.Code)
}

func (a *testAPI) sellAt(t *testing.T, productID uuid.UUID, soldAt time.Time) {
	t.Helper()
	order := a.createOrder(t, productID, 1)
	rec, _ := a.do(t, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/complete_order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"order_id": order.ID.String(),
		"sold_at":  soldAt.UTC().Format(time.RFC3339),
		"lines":    lines(productID, 1, "5.00"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestDashboardHandler_SevenDayRangeCountsRecentSales(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	product := api.createProduct(t, "Widget", 10, nil)
	now := time.Now()
	api.sellAt(t, product.ID, now.AddDate(0, 0, -8))
	api.sellAt(t, product.ID, now.AddDate(0, 0, -3))
	api.sellAt(t, product.ID, now.Add(-time.Minute))

	rec, env := api.do(t, http.MethodGet, "/api/v1/dashboard?time_range=7d", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dashboard := decode[reportapp.DashboardResponse](t, env)
	assert.Equal(t, int64(2), dashboard.SalesCount)
	assert.True(t, decimal.RequireFromString("10").Equal(dashboard.TotalSales), dashboard.TotalSales.String())

	var bucketed decimal.Decimal
	for _, b := range dashboard.MonthlySales {
		bucketed = bucketed.Add(b.Sales)
	}
	assert.True(t, decimal.RequireFromString("10").Equal(bucketed), bucketed.String())

	rec, env = api.do(t, http.MethodGet, "/api/v1/dashboard?time_range=30d", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), decode[reportapp.DashboardResponse](t, env).SalesCount)
}
