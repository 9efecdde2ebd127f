package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
)

// Export records goods from a sale shipped abroad. It has no stock effect.
type Export struct {
	shared.BaseEntity
	SaleID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Sale               *Sale     `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	ExportDate         time.Time `gorm:"type:date;not null"`
	DestinationCountry string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (Export) TableName() string {
	return "exports"
}

// NewExport creates an export record for a sale
func NewExport(saleID uuid.UUID, exportDate time.Time, destination string) (*Export, error) {
	e := &Export{BaseEntity: shared.NewBaseEntity(), SaleID: saleID}
	if err := e.Update(exportDate, destination); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the export date and destination
func (e *Export) Update(exportDate time.Time, destination string) error {
	if exportDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Export date is required")
	}
	if destination == "" {
		return shared.NewDomainError("INVALID_COUNTRY", "Destination country cannot be empty")
	}
	if len(destination) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Destination country cannot exceed 100 characters")
	}
	e.ExportDate = dateOnly(exportDate)
	e.DestinationCountry = destination
	e.Touch()
	return nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
