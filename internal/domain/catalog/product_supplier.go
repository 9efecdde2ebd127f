package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/partner"
)

// ProductSupplier links a product to one of its suppliers. The pair is unique.
type ProductSupplier struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier_pair,priority:1"`
	SupplierID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier_pair,priority:2;index"`
	Supplier   *partner.Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductSupplier) TableName() string {
	return "product_suppliers"
}

func newProductSupplier(productID, supplierID uuid.UUID) ProductSupplier {
	return ProductSupplier{
		ID:         uuid.New(),
		ProductID:  productID,
		SupplierID: supplierID,
		CreatedAt:  time.Now().UTC(),
	}
}
