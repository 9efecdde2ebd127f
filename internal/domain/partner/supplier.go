package partner

import (
	"net/mail"

	"github.com/inventario/backend/internal/domain/shared"
)

// Supplier is a vendor that can be linked to many products
type Supplier struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(100);not null"`
	Contact string `gorm:"type:varchar(100);not null"`
	Phone   string `gorm:"type:varchar(20);not null"`
	Email   string `gorm:"type:varchar(254);not null"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, contact, phone, email string) (*Supplier, error) {
	s := &Supplier{BaseEntity: shared.NewBaseEntity()}
	if err := s.apply(name, contact, phone, email); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's contact details
func (s *Supplier) Update(name, contact, phone, email string) error {
	if err := s.apply(name, contact, phone, email); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Supplier) apply(name, contact, phone, email string) error {
	if err := validateName("Supplier", name, 100); err != nil {
		return err
	}
	if len(contact) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact cannot exceed 100 characters")
	}
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	s.Name = name
	s.Contact = contact
	s.Phone = phone
	s.Email = email
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
