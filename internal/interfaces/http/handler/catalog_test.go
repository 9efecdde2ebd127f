package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/inventario/backend/internal/application/catalog"
	partnerapp "github.com/inventario/backend/internal/application/partner"
	"github.com/inventario/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testAPI) createWarehouse(t *testing.T, name string) partnerapp.WarehouseResponse {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/warehouses", gin.H{
		"name":     name,
		"location": "Dock 4",
		"capacity": 500,
		"type":     "general",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[partnerapp.WarehouseResponse](t, env)
}

func (a *testAPI) createProduct(t *testing.T, name string, qty int, warehouseID *uuid.UUID) catalogapp.ProductResponse {
	t.Helper()
	body := gin.H{
		"name":           name,
		"purchase_price": "2.00",
		"sale_price":     "5.00",
		"quantity":       qty,
	}
	if warehouseID != nil {
		body["warehouse_id"] = warehouseID.String()
	}
	rec, env := a.do(t, http.MethodPost, "/api/v1/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[catalogapp.ProductResponse](t, env)
}

func TestProductHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	wh := api.createWarehouse(t, "Central")
	created := api.createProduct(t, "Olive oil", 12, &wh.ID)
	assert.Equal(t, 12, created.Quantity)
	assert.Equal(t, "Central", created.WarehouseName)
	assert.Equal(t, "available", created.Status)

	rec, env := api.do(t, http.MethodGet, "/api/v1/products/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Olive oil", decode[catalogapp.ProductResponse](t, env).Name)

	t.Run("update keeps quantity", func(t *testing.T) {
		rec, env := api.do(t, http.MethodPut, "/api/v1/products/"+created.ID.String(), gin.H{
			"name":           "Extra virgin olive oil",
			"purchase_price": "2.50",
			"sale_price":     "6.00",
			"quantity":       999,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[catalogapp.ProductResponse](t, env)
		assert.Equal(t, "Extra virgin olive oil", updated.Name)
		assert.Equal(t, 12, updated.Quantity)
	})

	t.Run("list carries paging meta", func(t *testing.T) {
		api.createProduct(t, "Vinegar", 3, nil)
		rec, env := api.do(t, http.MethodGet, "/api/v1/products?page_size=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(2), env.Meta.Total)
		assert.Equal(t, 1, env.Meta.Page)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Len(t, decode[[]catalogapp.ProductResponse](t, env), 1)
	})

	t.Run("bad id and unknown id", func(t *testing.T) {
		rec, env := api.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, env.Error.Code)

		rec, env = api.do(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.ErrCodeNotFound, env.Error.Code)
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("unknown warehouse", func(t *testing.T) {
		rec, _ := api.do(t, http.MethodPost, "/api/v1/products", gin.H{
			"name":           "Ghost",
			"purchase_price": "1",
			"sale_price":     "2",
			"warehouse_id":   uuid.NewString(),
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec, _ := api.do(t, http.MethodDelete, "/api/v1/products/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec, _ = api.do(t, http.MethodGet, "/api/v1/products/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_AdjustStock(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)
	p := api.createProduct(t, "Flour", 2, nil)
	path := "/api/v1/products/" + p.ID.String() + "/adjust_stock"

	rec, env := api.do(t, http.MethodPost, path, gin.H{"cantidad": -5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, -3, decode[catalogapp.ProductResponse](t, env).Quantity)

	rec, env = api.do(t, http.MethodPost, path, gin.H{"cantidad": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decode[catalogapp.ProductResponse](t, env).Quantity)

	rec, env = api.do(t, http.MethodPost, path, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/products/"+uuid.NewString()+"/adjust_stock", gin.H{"cantidad": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_LowStock(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)
	api.createProduct(t, "Salt", 10, nil)
	api.createProduct(t, "Sugar", 11, nil)
	pepper := api.createProduct(t, "Pepper", 1, nil)

	rec, env := api.do(t, http.MethodGet, "/api/v1/products/low_stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	names := make([]string, 0)
	for _, p := range decode[[]catalogapp.ProductResponse](t, env) {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Salt", "Pepper"}, names)

	rec, env = api.do(t, http.MethodGet, "/api/v1/products/low_stock?threshold=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalogapp.ProductResponse](t, env), 1)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/products/low_stock?threshold=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/products/"+pepper.ID.String()+"/adjust_stock", gin.H{"cantidad": -3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = api.do(t, http.MethodGet, "/api/v1/products/low_stock?threshold=-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	oversold := decode[[]catalogapp.ProductResponse](t, env)
	require.Len(t, oversold, 1)
	assert.Equal(t, "Pepper", oversold[0].Name)
	assert.Equal(t, -2, oversold[0].Quantity)
	assert.True(t, oversold[0].LowStock)
	assert.True(t, oversold[0].InventoryValue.IsNegative())
}

func TestWarehouseHandler(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	wh := api.createWarehouse(t, "North")
	api.createProduct(t, "Rice", 4, &wh.ID)
	api.createProduct(t, "Beans", 4, nil)

	rec, env := api.do(t, http.MethodGet, "/api/v1/warehouses/"+wh.ID.String()+"/productos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]catalogapp.ProductResponse](t, env)
	require.Len(t, products, 1)
	assert.Equal(t, "Rice", products[0].Name)

	rec, env = api.do(t, http.MethodPut, "/api/v1/warehouses/"+wh.ID.String(), gin.H{
		"name":     "North",
		"location": "Dock 9",
		"capacity": 100,
		"type":     "refrigerated",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "refrigerated", decode[partnerapp.WarehouseResponse](t, env).Type)

	rec, env = api.do(t, http.MethodPost, "/api/v1/warehouses", gin.H{
		"name":     "Bad",
		"location": "Nowhere",
		"capacity": 1,
		"type":     "floating",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/warehouses/"+uuid.NewString()+"/productos", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierHandler(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec, env := api.do(t, http.MethodPost, "/api/v1/suppliers", gin.H{
		"name":  "Acme Foods",
		"email": "sales@acme.example.com",
		"phone": "555-0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	supplier := decode[partnerapp.SupplierResponse](t, env)

	rec, env = api.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"name":           "Tomatoes",
		"purchase_price": "1.00",
		"sale_price":     "1.50",
		"suppliers":      []string{supplier.ID.String()},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[catalogapp.ProductResponse](t, env)
	require.Len(t, product.Suppliers, 1)
	assert.Equal(t, "Acme Foods", product.Suppliers[0].Name)

	rec, env = api.do(t, http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.Total)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/suppliers", gin.H{"name": "No Mail"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
