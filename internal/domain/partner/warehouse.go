package partner

import (
	"github.com/inventario/backend/internal/domain/shared"
)

// WarehouseType represents the storage class of a warehouse
type WarehouseType string

const (
	WarehouseTypeGeneral      WarehouseType = "general"
	WarehouseTypeRefrigerated WarehouseType = "refrigerated"
	WarehouseTypeHighSecurity WarehouseType = "high_security"
)

// IsValid reports whether t is a known warehouse type
func (t WarehouseType) IsValid() bool {
	switch t {
	case WarehouseTypeGeneral, WarehouseTypeRefrigerated, WarehouseTypeHighSecurity:
		return true
	}
	return false
}

// Warehouse is a storage location products can be assigned to.
// Deleting a warehouse detaches its products instead of removing them.
type Warehouse struct {
	shared.BaseEntity
	Name     string        `gorm:"type:varchar(255);not null"`
	Location string        `gorm:"type:varchar(255);not null"`
	Capacity int           `gorm:"not null"`
	Type     WarehouseType `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse with required fields
func NewWarehouse(name, location string, capacity int, warehouseType WarehouseType) (*Warehouse, error) {
	w := &Warehouse{BaseEntity: shared.NewBaseEntity()}
	if err := w.apply(name, location, capacity, warehouseType); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces the warehouse's descriptive fields
func (w *Warehouse) Update(name, location string, capacity int, warehouseType WarehouseType) error {
	if err := w.apply(name, location, capacity, warehouseType); err != nil {
		return err
	}
	w.Touch()
	return nil
}

func (w *Warehouse) apply(name, location string, capacity int, warehouseType WarehouseType) error {
	if err := validateName("Warehouse", name, 255); err != nil {
		return err
	}
	if location == "" {
		return shared.NewDomainError("INVALID_LOCATION", "Warehouse location cannot be empty")
	}
	if len(location) > 255 {
		return shared.NewDomainError("INVALID_LOCATION", "Warehouse location cannot exceed 255 characters")
	}
	if capacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Warehouse capacity cannot be negative")
	}
	if !warehouseType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Invalid warehouse type")
	}
	w.Name = name
	w.Location = location
	w.Capacity = capacity
	w.Type = warehouseType
	return nil
}

func validateName(entity, name string, max int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", entity+" name cannot be empty")
	}
	if len(name) > max {
		return shared.NewDomainError("INVALID_NAME", entity+" name is too long")
	}
	return nil
}
