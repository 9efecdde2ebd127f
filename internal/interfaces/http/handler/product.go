package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/inventario/backend/internal/application/catalog"
	"github.com/inventario/backend/internal/domain/catalog"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Page(c, products, total, filter.Page, filter.PageSize)
}

// Update handles PUT /products/:id. The stock quantity is left untouched.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustStock handles POST /products/:id/adjust_stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), productID, *req.Cantidad)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// LowStock handles GET /products/low_stock?threshold=N
func (h *ProductHandler) LowStock(c *gin.Context) {
	threshold := catalog.DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "threshold must be an integer")
			return
		}
		threshold = n
	}

	products, err := h.productService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// ListByWarehouse handles GET /warehouses/:id/productos
func (h *ProductHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	products, err := h.productService.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}
