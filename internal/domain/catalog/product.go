package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/partner"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the availability of a product
type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "available"
	ProductStatusUnavailable  ProductStatus = "unavailable"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValid reports whether s is a known product status
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusUnavailable, ProductStatusDiscontinued:
		return true
	}
	return false
}

// DefaultLowStockThreshold is used when no threshold is supplied
const DefaultLowStockThreshold = 10

// Product represents an item held in stock.
// Quantity is only changed through ProductRepository.AdjustStock once the
// product exists; Update never touches it.
type Product struct {
	shared.BaseEntity
	Name           string             `gorm:"type:varchar(255);not null"`
	Description    string             `gorm:"type:text"`
	PurchasePrice  decimal.Decimal    `gorm:"type:decimal(10,2);not null"`
	SalePrice      decimal.Decimal    `gorm:"type:decimal(10,2);not null"`
	Quantity       int                `gorm:"not null"`
	WarehouseID    *uuid.UUID         `gorm:"type:uuid;index"`
	Warehouse      *partner.Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:SET NULL"`
	Status         ProductStatus      `gorm:"type:varchar(20);not null"`
	ExportEligible bool               `gorm:"not null"`
	ExportDeadline *time.Time         `gorm:"type:date"`
	Suppliers      []ProductSupplier  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails carries the editable attributes of a product
type ProductDetails struct {
	Name           string
	Description    string
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	WarehouseID    *uuid.UUID
	Status         ProductStatus
	ExportEligible bool
	ExportDeadline *time.Time
}

// NewProduct creates a product with its opening stock
func NewProduct(details ProductDetails, quantity int) (*Product, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}
	p := &Product{
		BaseEntity: shared.NewBaseEntity(),
		Quantity:   quantity,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the product's descriptive attributes
func (p *Product) Update(details ProductDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// SetSuppliers replaces the supplier set. Duplicates are collapsed and order is kept.
func (p *Product) SetSuppliers(supplierIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(supplierIDs))
	links := make([]ProductSupplier, 0, len(supplierIDs))
	for _, id := range supplierIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, newProductSupplier(p.ID, id))
	}
	p.Suppliers = links
}

// SupplierIDs returns the ids of the linked suppliers
func (p *Product) SupplierIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Suppliers))
	for i, s := range p.Suppliers {
		ids[i] = s.SupplierID
	}
	return ids
}

// IsLowStock reports whether the quantity is at or below threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}

// InventoryValue returns quantity times sale price
func (p *Product) InventoryValue() decimal.Decimal {
	return p.SalePrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p *Product) apply(d ProductDetails) error {
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(d.Name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	if d.PurchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if d.SalePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	status := d.Status
	if status == "" {
		status = ProductStatusAvailable
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid product status")
	}

	p.Name = d.Name
	p.Description = d.Description
	p.PurchasePrice = d.PurchasePrice.Round(2)
	p.SalePrice = d.SalePrice.Round(2)
	p.WarehouseID = d.WarehouseID
	p.Status = status
	p.ExportEligible = d.ExportEligible
	if d.ExportDeadline != nil {
		deadline := truncateDay(*d.ExportDeadline)
		p.ExportDeadline = &deadline
	} else {
		p.ExportDeadline = nil
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
