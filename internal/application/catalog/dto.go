package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRequest carries the editable attributes of a product. Quantity is
// absent on purpose: after creation it only moves through AdjustStock.
type ProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=255"`
	Description    string           `json:"description"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price" binding:"required"`
	SalePrice      *decimal.Decimal `json:"sale_price" binding:"required"`
	WarehouseID    *uuid.UUID       `json:"warehouse_id"`
	Status         string           `json:"status" binding:"omitempty,oneof=available unavailable discontinued"`
	ExportEligible bool             `json:"export_eligible"`
	ExportDeadline *string          `json:"export_deadline" binding:"omitempty,datetime=2006-01-02"`
	SupplierIDs    []uuid.UUID      `json:"suppliers"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	ProductRequest
	Quantity *int `json:"quantity" binding:"omitempty,gte=0"`
}

// UpdateProductRequest represents a request to replace a product.
// Any quantity in the body is ignored.
type UpdateProductRequest struct {
	ProductRequest
}

// AdjustStockRequest carries a signed stock delta
type AdjustStockRequest struct {
	Cantidad *int `json:"cantidad" binding:"required"`
}

// ProductSupplierResponse is a supplier linked to a product
type ProductSupplierResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID                 `json:"id"`
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	PurchasePrice  decimal.Decimal           `json:"purchase_price"`
	SalePrice      decimal.Decimal           `json:"sale_price"`
	Quantity       int                       `json:"quantity"`
	LowStock       bool                      `json:"low_stock"`
	InventoryValue decimal.Decimal           `json:"inventory_value"`
	WarehouseID    *uuid.UUID                `json:"warehouse_id"`
	WarehouseName  string                    `json:"warehouse_name"`
	Status         string                    `json:"status"`
	ExportEligible bool                      `json:"export_eligible"`
	ExportDeadline *string                   `json:"export_deadline"`
	Suppliers      []ProductSupplierResponse `json:"suppliers"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search         string `form:"search"`
	Status         string `form:"status" binding:"omitempty,oneof=available unavailable discontinued"`
	WarehouseID    string `form:"warehouse_id" binding:"omitempty,uuid"`
	ExportEligible *bool  `form:"export_eligible"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		Quantity:       p.Quantity,
		LowStock:       p.IsLowStock(catalog.DefaultLowStockThreshold),
		InventoryValue: p.InventoryValue(),
		WarehouseID:    p.WarehouseID,
		Status:         string(p.Status),
		ExportEligible: p.ExportEligible,
		Suppliers:      make([]ProductSupplierResponse, 0, len(p.Suppliers)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Warehouse != nil {
		resp.WarehouseName = p.Warehouse.Name
	}
	if p.ExportDeadline != nil {
		deadline := p.ExportDeadline.Format(time.DateOnly)
		resp.ExportDeadline = &deadline
	}
	for _, link := range p.Suppliers {
		item := ProductSupplierResponse{ID: link.SupplierID}
		if link.Supplier != nil {
			item.Name = link.Supplier.Name
		}
		resp.Suppliers = append(resp.Suppliers, item)
	}
	return resp
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

func (r ProductRequest) details() (catalog.ProductDetails, error) {
	d := catalog.ProductDetails{
		Name:           r.Name,
		Description:    r.Description,
		WarehouseID:    r.WarehouseID,
		Status:         catalog.ProductStatus(r.Status),
		ExportEligible: r.ExportEligible,
	}
	if r.PurchasePrice != nil {
		d.PurchasePrice = *r.PurchasePrice
	}
	if r.SalePrice != nil {
		d.SalePrice = *r.SalePrice
	}
	if r.ExportDeadline != nil && *r.ExportDeadline != "" {
		deadline, err := time.ParseInLocation(time.DateOnly, *r.ExportDeadline, time.UTC)
		if err != nil {
			return d, shared.InvalidInput("export_deadline must use the YYYY-MM-DD format")
		}
		d.ExportDeadline = &deadline
	}
	return d, nil
}
