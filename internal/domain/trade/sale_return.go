package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
)

// Return records goods from a sale coming back. Creating one puts the
// sale's unreturned quantities back into stock.
type Return struct {
	shared.BaseEntity
	SaleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Sale       *Sale     `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	ReturnDate time.Time `gorm:"type:date;not null"`
	Reason     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a return record for a sale
func NewReturn(saleID uuid.UUID, returnDate time.Time, reason string) (*Return, error) {
	r := &Return{BaseEntity: shared.NewBaseEntity(), SaleID: saleID}
	if err := r.Update(returnDate, reason); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the descriptive fields. Stock is never touched here.
func (r *Return) Update(returnDate time.Time, reason string) error {
	if returnDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Return date is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot be empty")
	}
	r.ReturnDate = dateOnly(returnDate)
	r.Reason = reason
	r.Touch()
	return nil
}
